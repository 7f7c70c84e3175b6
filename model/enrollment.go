package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment types. A premium pass grants access to every course without a
// per-course row.
const (
	EnrollmentTypeCourse      = "course"
	EnrollmentTypePremiumPass = "premium_pass"
)

// Enrollment statuses. Status flips to completed exactly when progress
// reaches 100 and never reverts.
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
)

// CourseID used on enrollments created from a premium pass purchase.
const PremiumPassCourseID = "premium-pass"

// Enrollment is a grant of access to one course (or all courses, for a
// premium pass), tied to the payment that produced it. At most one row may
// exist per (user_id, course_id) pair.
type Enrollment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID       string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_course" json:"course_id"`
	CourseName     string         `gorm:"not null" json:"course_name"`
	PaymentID      string         `gorm:"type:varchar(100)" json:"payment_id"`
	EnrollmentType string         `gorm:"type:varchar(20);not null;default:'course'" json:"enrollment_type"`
	AmountPaid     float64        `json:"amount_paid"`
	EnrolledAt     time.Time      `gorm:"not null" json:"enrolled_at"`
	Status         string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Progress       int            `gorm:"not null;default:0" json:"progress"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Enrollment
func (Enrollment) TableName() string {
	return "enrollments"
}

// IsPremiumPass reports whether this enrollment is a blanket premium pass.
func (e *Enrollment) IsPremiumPass() bool {
	return e.EnrollmentType == EnrollmentTypePremiumPass
}
