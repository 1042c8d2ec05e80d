package cart

import (
	cartsvc "github.com/quickplate/quickplate-backend/internal/cart"
)

type menuItemPayload struct {
	ID              string  `json:"id" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	OnPromotion     bool    `json:"on_promotion"`
	DiscountedPrice float64 `json:"discounted_price"`
	ImageURL        string  `json:"image_url,omitempty"`
	RestaurantID    string  `json:"restaurant_id" validate:"required"`
	RestaurantName  string  `json:"restaurant_name" validate:"required"`
}

type addOnPayload struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type addItemRequest struct {
	Item     menuItemPayload `json:"item"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	AddOns   []addOnPayload  `json:"add_ons,omitempty"`
	// ConfirmReplace answers the replace prompt up front: adding from a
	// different restaurant clears the cart only when this is set.
	ConfirmReplace bool `json:"confirm_replace"`
}

type updateQuantityRequest struct {
	Key      string `json:"key" validate:"required"`
	Quantity int    `json:"quantity"`
}

type applyPromotionRequest struct {
	Code string `json:"code" validate:"required"`
}

func toMenuItemInput(payload menuItemPayload) cartsvc.MenuItemInput {
	return cartsvc.MenuItemInput{
		ID:              payload.ID,
		Name:            payload.Name,
		Price:           payload.Price,
		OnPromotion:     payload.OnPromotion,
		DiscountedPrice: payload.DiscountedPrice,
		ImageURL:        payload.ImageURL,
		RestaurantID:    payload.RestaurantID,
		RestaurantName:  payload.RestaurantName,
	}
}

func toAddOns(payloads []addOnPayload) []cartsvc.AddOn {
	addOns := make([]cartsvc.AddOn, 0, len(payloads))
	for _, payload := range payloads {
		addOns = append(addOns, cartsvc.AddOn{
			ID:       payload.ID,
			Name:     payload.Name,
			Price:    payload.Price,
			Quantity: payload.Quantity,
		})
	}
	return addOns
}
