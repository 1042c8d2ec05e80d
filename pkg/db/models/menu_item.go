package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItemCategory groups menu items for display; Position drives ordering.
type MenuItemCategory struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// MenuItem is a sellable dish. DiscountedPrice is the effective unit price
// while OnPromotion is set.
type MenuItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID    uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	CategoryID      *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Price           float64         `gorm:"column:price;type:numeric(10,2);not null"`
	OnPromotion     bool            `gorm:"column:on_promotion;not null;default:false"`
	DiscountedPrice *float64        `gorm:"column:discounted_price;type:numeric(10,2)"`
	ImageURL        *string         `gorm:"column:image_url"`
	IsAvailable     bool            `gorm:"column:is_available;not null"`
	AddOns          []MenuItemAddOn `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// MenuItemAddOn is an optional extra priced independently of its parent item.
type MenuItemAddOn struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	Price      float64   `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
