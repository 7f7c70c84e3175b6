package model

import (
	"time"

	"gorm.io/gorm"
)

// JWTTokenBlacklist stores revoked JWT token IDs until their natural expiry.
type JWTTokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"uniqueIndex;not null;type:text" json:"token"` // jti, not the full token
	UserID    uint           `gorm:"index" json:"user_id"`
	Reason    string         `gorm:"type:varchar(100)" json:"reason"` // logout, security
	ExpiresAt time.Time      `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
