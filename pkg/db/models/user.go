package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owner. Every product, customer, and sale row hangs off
// exactly one user via owner_id. Either Email or PhoneNumber is set.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email        *string    `gorm:"column:email;uniqueIndex"`
	PhoneNumber  *string    `gorm:"column:phone_number;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
