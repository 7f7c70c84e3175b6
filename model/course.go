package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a catalog entry. Enrollments and certificates reference courses
// by slug so the catalog can be reseeded without breaking access records.
type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Slug        string         `gorm:"uniqueIndex;not null;type:varchar(100)" json:"slug"` // e.g. "web-development"
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Duration    string         `gorm:"type:varchar(50)" json:"duration"` // e.g. "12 weeks"
	Level       string         `gorm:"type:varchar(20)" json:"level"`    // beginner, intermediate, advanced
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}
