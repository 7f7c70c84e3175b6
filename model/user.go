package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// GoogleAuthSentinel is the credential value used when an account is created
// or linked through Google sign-in. SignUp treats a duplicate email as a
// linking flow instead of an error when it sees this value.
const GoogleAuthSentinel = "google-oauth"

// PlaceholderPhone is stored when a federated login carries no phone number.
const PlaceholderPhone = "0000000000"

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `gorm:"not null" json:"first_name"`
	MiddleName   string         `json:"middle_name,omitempty"`
	LastName     string         `json:"last_name,omitempty"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Enrollments    []Enrollment        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"enrollments,omitempty"`
	Certificates   []Certificate       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments       []CoursePayment     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins the name parts, skipping empty ones.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SplitDisplayName splits an OAuth display name into first and last name.
// Everything after the first word becomes the last name.
func SplitDisplayName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) > 1 {
		last = strings.Join(fields[1:], " ")
	}
	return first, last
}
