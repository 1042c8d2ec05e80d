package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	"github.com/quickplate/quickplate-backend/internal/restaurants"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type geoPointPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Name      string  `json:"name,omitempty"`
}

type createRestaurantRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Address      string          `json:"address" validate:"required"`
	City         string          `json:"city" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	Email        *string         `json:"email,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	OpeningHours []string        `json:"opening_hours,omitempty"`
	Location     geoPointPayload `json:"location"`
	CuisineIDs   []uuid.UUID     `json:"cuisine_ids,omitempty"`
}

type updateRestaurantRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Address      *string          `json:"address,omitempty"`
	City         *string          `json:"city,omitempty"`
	Phone        *string          `json:"phone,omitempty"`
	Email        *string          `json:"email,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	OpeningHours []string         `json:"opening_hours,omitempty"`
	Location     *geoPointPayload `json:"location,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
	CuisineIDs   []uuid.UUID      `json:"cuisine_ids,omitempty"`
}

// RestaurantCreate registers a new storefront.
func RestaurantCreate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		var body createRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), restaurants.CreateRestaurantInput{
			Name:         body.Name,
			Description:  body.Description,
			Address:      body.Address,
			City:         body.City,
			Phone:        body.Phone,
			Email:        body.Email,
			ImageURL:     body.ImageURL,
			OpeningHours: body.OpeningHours,
			Location:     toGeoPoint(body.Location),
			CuisineIDs:   body.CuisineIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// RestaurantDetail returns one storefront with its cuisines.
func RestaurantDetail(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// RestaurantList serves the public storefront listing with keyset paging.
func RestaurantList(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cuisineID, err := validators.ParseQueryUUID(r, "cuisine_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := restaurants.ListQuery{
			City:   strings.TrimSpace(r.URL.Query().Get("city")),
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if cuisineID != uuid.Nil {
			query.CuisineID = &cuisineID
		}

		page, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// RestaurantUpdate applies a partial storefront update.
func RestaurantUpdate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateRestaurantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := restaurants.UpdateRestaurantInput{
			Name:         body.Name,
			Description:  body.Description,
			Address:      body.Address,
			City:         body.City,
			Phone:        body.Phone,
			Email:        body.Email,
			ImageURL:     body.ImageURL,
			OpeningHours: body.OpeningHours,
			IsActive:     body.IsActive,
			CuisineIDs:   body.CuisineIDs,
		}
		if body.Location != nil {
			point := toGeoPoint(*body.Location)
			input.Location = &point
		}

		record, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// RestaurantDeactivate hides a storefront from listings.
func RestaurantDeactivate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func toGeoPoint(payload geoPointPayload) types.GeoPoint {
	return types.GeoPoint{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Address:   payload.Address,
		Name:      payload.Name,
	}
}
