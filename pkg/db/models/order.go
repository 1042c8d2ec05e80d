package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/enums"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

// Order is a placed order built from a cart snapshot at checkout.
type Order struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID         uuid.UUID             `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status               enums.OrderStatus     `gorm:"column:status;not null;default:PENDING"`
	Items                []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ContactInfo          types.ContactInfo     `gorm:"column:contact_info;type:jsonb"`
	DeliveryAddress      types.DeliveryAddress `gorm:"column:delivery_address;type:jsonb"`
	DeliveryInstructions *string               `gorm:"column:delivery_instructions"`
	PaymentMethod        enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	Subtotal             float64               `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TaxAmount            float64               `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	DeliveryFee          float64               `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	DiscountAmount       float64               `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	Total                float64               `gorm:"column:total;type:numeric(10,2);not null"`
	PromotionCode        *string               `gorm:"column:promotion_code"`
	RestaurantLocation   types.GeoPoint        `gorm:"column:restaurant_location;type:jsonb"`
	DeliveryLocation     types.GeoPoint        `gorm:"column:delivery_location;type:jsonb"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots one cart line item at checkout time.
type OrderLineItem struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID    uuid.UUID            `gorm:"column:menu_item_id;type:uuid;not null"`
	Name          string               `gorm:"column:name;not null"`
	Price         float64              `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice float64              `gorm:"column:original_price;type:numeric(10,2);not null"`
	Quantity      int                  `gorm:"column:quantity;not null"`
	ImageURL      *string              `gorm:"column:image_url"`
	ItemTotal     float64              `gorm:"column:item_total;type:numeric(10,2);not null"`
	AddOns        []OrderLineItemAddOn `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
}

// OrderLineItemAddOn snapshots one add-on row under a line item.
type OrderLineItemAddOn struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LineItemID uuid.UUID `gorm:"column:line_item_id;type:uuid;not null;index"`
	AddOnID    uuid.UUID `gorm:"column:add_on_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	Price      float64   `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity   int       `gorm:"column:quantity;not null;default:1"`
}
