package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	"github.com/quickplate/quickplate-backend/internal/promotions"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

type createPromotionRequest struct {
	Code               string    `json:"code" validate:"required"`
	Description        string    `json:"description"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"required,gt=0,max=100"`
	MaxDiscount        *float64  `json:"max_discount,omitempty"`
	MinOrderAmount     float64   `json:"min_order_amount"`
	StartsAt           time.Time `json:"starts_at" validate:"required"`
	EndsAt             time.Time `json:"ends_at" validate:"required"`
}

type updatePromotionRequest struct {
	Description        *string    `json:"description,omitempty"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	MaxDiscount        *float64   `json:"max_discount,omitempty"`
	MinOrderAmount     *float64   `json:"min_order_amount,omitempty"`
	StartsAt           *time.Time `json:"starts_at,omitempty"`
	EndsAt             *time.Time `json:"ends_at,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

type validatePromotionRequest struct {
	Code         string    `json:"code" validate:"required"`
	RestaurantID uuid.UUID `json:"restaurantId" validate:"required"`
	UserID       uuid.UUID `json:"userId"`
	OrderAmount  float64   `json:"orderAmount"`
}

// PromotionCreate registers a promo code on the restaurant.
func PromotionCreate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), restaurantID, promotions.CreatePromotionInput{
			Code:               body.Code,
			Description:        body.Description,
			DiscountPercentage: body.DiscountPercentage,
			MaxDiscount:        body.MaxDiscount,
			MinOrderAmount:     body.MinOrderAmount,
			StartsAt:           body.StartsAt,
			EndsAt:             body.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// PromotionList returns the restaurant's promotions, optionally live only.
func PromotionList(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListByRestaurant(r.Context(), restaurantID, validators.ParseQueryBool(r, "active_only"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// PromotionUpdate applies a partial promotion update.
func PromotionUpdate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "promotionId"), "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), id, promotions.UpdatePromotionInput{
			Description:        body.Description,
			DiscountPercentage: body.DiscountPercentage,
			MaxDiscount:        body.MaxDiscount,
			MinOrderAmount:     body.MinOrderAmount,
			StartsAt:           body.StartsAt,
			EndsAt:             body.EndsAt,
			IsActive:           body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// PromotionDelete removes a promo code.
func PromotionDelete(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "promotionId"), "promotionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PromotionValidate checks a promo code against a restaurant and order
// amount. A rejection carries a machine-readable reason in the details.
func PromotionValidate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var body validatePromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Validate(r.Context(), promotions.ValidateInput{
			Code:         body.Code,
			RestaurantID: body.RestaurantID,
			UserID:       body.UserID,
			OrderAmount:  body.OrderAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
