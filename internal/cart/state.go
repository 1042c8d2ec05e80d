package cart

import (
	"fmt"
	"sort"
	"strings"
)

// State is the full cart snapshot for one user. The JSON field names are the
// persisted contract consumed by the checkout flow; keep them stable.
type State struct {
	RestaurantID   *string            `json:"restaurantId"`
	RestaurantName *string            `json:"restaurantName"`
	Items          []LineItem         `json:"items"`
	TaxRate        float64            `json:"taxRate"`
	TaxAmount      float64            `json:"taxAmount"`
	DeliveryFee    float64            `json:"deliveryFee"`
	DiscountAmount float64            `json:"discountAmount"`
	Promotion      *AppliedPromotion  `json:"appliedPromotion"`
	Subtotal       float64            `json:"subtotal"`
	Total          float64            `json:"total"`
}

// LineItem is one distinct (menu item + add-on selection) entry. Price is the
// effective unit price at add time; OriginalPrice the undiscounted one.
type LineItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Quantity      int     `json:"quantity"`
	ImageURL      string  `json:"imageUrl"`
	AddOns        []AddOn `json:"addOns"`
	ItemTotal     float64 `json:"itemTotal"`
}

// AddOn is a priced extra under a line item, quantified independently of the
// parent item's quantity.
type AddOn struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// AppliedPromotion is the validated promotion stored on the cart.
type AppliedPromotion struct {
	Code               string   `json:"code"`
	DiscountPercentage float64  `json:"discountPercentage"`
	MaxDiscount        *float64 `json:"maxDiscount"`
	MinOrderAmount     float64  `json:"minOrderAmount"`
	Description        string   `json:"description"`
}

// MenuItemInput carries enough of a menu item to price it into the cart.
type MenuItemInput struct {
	ID              string
	Name            string
	Price           float64
	OnPromotion     bool
	DiscountedPrice float64
	ImageURL        string
	RestaurantID    string
	RestaurantName  string
}

// EffectivePrice returns the promotional price when the item itself is on
// promotion, else the list price.
func (m MenuItemInput) EffectivePrice() float64 {
	if m.OnPromotion && m.DiscountedPrice > 0 {
		return m.DiscountedPrice
	}
	return m.Price
}

// EmptyState returns the initial cart for the configured tax/fee schedule.
func EmptyState(taxRate, deliveryFee float64) State {
	return State{
		Items:       []LineItem{},
		TaxRate:     taxRate,
		DeliveryFee: deliveryFee,
	}
}

// Key returns the identity of the line item: menu item id plus the normalized
// add-on selection. Two lines with the same key are the same cart entry.
func (li LineItem) Key() string {
	return ItemKey(li.ID, li.AddOns)
}

// ItemKey normalizes an (item, add-ons) pair into a stable identity string.
// Add-on order does not matter; id and quantity both do.
func ItemKey(itemID string, addOns []AddOn) string {
	if len(addOns) == 0 {
		return itemID
	}
	parts := make([]string, 0, len(addOns))
	for _, a := range addOns {
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		parts = append(parts, fmt.Sprintf("%s-%d", a.ID, qty))
	}
	sort.Strings(parts)
	return itemID + "_" + strings.Join(parts, ",")
}

// Count returns the number of units across all line items.
func (s State) Count() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no line items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}
