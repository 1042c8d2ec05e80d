package models

import (
	"time"

	"github.com/google/uuid"
)

// Cuisine is a taxonomy entry restaurants can be tagged with.
type Cuisine struct {
	ID          uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string       `gorm:"column:name;not null;uniqueIndex"`
	Description *string      `gorm:"column:description"`
	ImageURL    *string      `gorm:"column:image_url"`
	Restaurants []Restaurant `gorm:"many2many:restaurant_cuisines"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
