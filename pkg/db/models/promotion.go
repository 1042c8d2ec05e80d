package models

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is a restaurant-scoped promo code validated server-side.
type Promotion struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID       uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:idx_promotions_restaurant_code"`
	Code               string    `gorm:"column:code;not null;uniqueIndex:idx_promotions_restaurant_code"`
	Description        string    `gorm:"column:description;not null"`
	DiscountPercentage float64   `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	MaxDiscount        *float64  `gorm:"column:max_discount;type:numeric(10,2)"`
	MinOrderAmount     float64   `gorm:"column:min_order_amount;type:numeric(10,2);not null;default:0"`
	StartsAt           time.Time `gorm:"column:starts_at;not null"`
	EndsAt             time.Time `gorm:"column:ends_at;not null"`
	// No default tag: gorm must write false explicitly or the column
	// default would flip freshly created inactive rows to active.
	IsActive bool `gorm:"column:is_active;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLive reports whether the promotion is active and inside its window at t.
func (p Promotion) IsLive(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if t.Before(p.StartsAt) || t.After(p.EndsAt) {
		return false
	}
	return true
}
