package model

import (
	"time"
)

// ContactMessage is an append-only record of a storefront contact form
// submission. No lifecycle beyond creation.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}
