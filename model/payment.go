package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// CoursePayment is the record of one gateway charge. The gateway itself is an
// external collaborator; this row only tracks the order we opened and the
// success callback we received. Completion is trusted, not re-verified.
type CoursePayment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	OrderID        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_id"`
	PaymentID      string         `gorm:"type:varchar(100)" json:"payment_id"` // gateway charge reference
	CourseID       string         `gorm:"type:varchar(100);not null" json:"course_id"`
	CourseName     string         `json:"course_name"`
	EnrollmentType string         `gorm:"type:varchar(20);not null;default:'course'" json:"enrollment_type"`
	Amount         float64        `gorm:"not null" json:"amount"`
	Currency       string         `gorm:"type:varchar(10);default:'USD'" json:"currency"`
	Status         string         `gorm:"type:varchar(20);default:'pending'" json:"status"`
	GatewayPayload datatypes.JSON `json:"-"` // raw success-callback body, kept for audits
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CoursePayment
func (CoursePayment) TableName() string {
	return "course_payments"
}
