package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/quickplate/quickplate-backend/pkg/types"
)

// Restaurant is a storefront listing managed through the admin dashboard.
type Restaurant struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Description  *string        `gorm:"column:description"`
	Address      string         `gorm:"column:address;not null"`
	City         string         `gorm:"column:city;not null"`
	Phone        string         `gorm:"column:phone;not null"`
	Email        *string        `gorm:"column:email"`
	ImageURL     *string        `gorm:"column:image_url"`
	OpeningHours pq.StringArray `gorm:"column:opening_hours;type:text[]"`
	Location     types.GeoPoint `gorm:"column:location;type:jsonb"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	OwnerUserID  *uuid.UUID     `gorm:"column:owner_user_id;type:uuid"`
	Cuisines     []Cuisine      `gorm:"many2many:restaurant_cuisines;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
