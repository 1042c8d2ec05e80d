package controllers

import (
	"net/http"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	checkoutsvc "github.com/quickplate/quickplate-backend/internal/checkout"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type contactInfoPayload struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email,omitempty"`
}

type deliveryAddressPayload struct {
	Street     string  `json:"street" validate:"required"`
	City       string  `json:"city" validate:"required"`
	PostalCode string  `json:"postal_code,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type checkoutRequest struct {
	ContactInfo          contactInfoPayload     `json:"contact_info"`
	DeliveryAddress      deliveryAddressPayload `json:"delivery_address"`
	DeliveryInstructions *string                `json:"delivery_instructions,omitempty"`
	PaymentMethod        string                 `json:"payment_method" validate:"required"`
}

// Checkout turns the caller's saved cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.PlaceOrder(r.Context(), userID, checkoutsvc.PlaceOrderInput{
			ContactInfo: types.ContactInfo{
				Name:  body.ContactInfo.Name,
				Phone: body.ContactInfo.Phone,
				Email: body.ContactInfo.Email,
			},
			DeliveryAddress: types.DeliveryAddress{
				Street:     body.DeliveryAddress.Street,
				City:       body.DeliveryAddress.City,
				PostalCode: body.DeliveryAddress.PostalCode,
				Latitude:   body.DeliveryAddress.Latitude,
				Longitude:  body.DeliveryAddress.Longitude,
			},
			DeliveryInstructions: body.DeliveryInstructions,
			PaymentMethod:        enums.PaymentMethod(body.PaymentMethod),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
