package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/enums"
)

// User is a storefront customer or dashboard administrator.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;not null;default:customer"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
