package model

import (
	"time"
)

// Certificate is an immutable proof-of-completion record. Rows are
// append-only; nothing in the API mutates or deletes them.
type Certificate struct {
	ID             string    `gorm:"primaryKey;type:varchar(50)" json:"id"` // CERT-<base36 ts>-<base36 rand>
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	StudentName    string    `gorm:"not null" json:"student_name"`
	CourseName     string    `gorm:"not null" json:"course_name"`
	CourseID       string    `gorm:"type:varchar(100);not null;index" json:"course_id"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	IssuedAt       time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Certificate
func (Certificate) TableName() string {
	return "certificates"
}
