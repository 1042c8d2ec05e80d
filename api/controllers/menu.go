package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	"github.com/quickplate/quickplate-backend/internal/menu"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name     string `json:"name" validate:"required"`
	Position int    `json:"position"`
}

type renameCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type reorderCategoriesRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" validate:"required,min=1"`
}

type addOnPayload struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price"`
}

type createMenuItemRequest struct {
	CategoryID      *uuid.UUID     `json:"category_id,omitempty"`
	Name            string         `json:"name" validate:"required"`
	Description     *string        `json:"description,omitempty"`
	Price           float64        `json:"price" validate:"required,gt=0"`
	OnPromotion     bool           `json:"on_promotion"`
	DiscountedPrice *float64       `json:"discounted_price,omitempty"`
	ImageURL        *string        `json:"image_url,omitempty"`
	AddOns          []addOnPayload `json:"add_ons,omitempty"`
}

type updateMenuItemRequest struct {
	CategoryID      *uuid.UUID     `json:"category_id,omitempty"`
	Name            *string        `json:"name,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Price           *float64       `json:"price,omitempty"`
	OnPromotion     *bool          `json:"on_promotion,omitempty"`
	DiscountedPrice *float64       `json:"discounted_price,omitempty"`
	ImageURL        *string        `json:"image_url,omitempty"`
	IsAvailable     *bool          `json:"is_available,omitempty"`
	AddOns          []addOnPayload `json:"add_ons,omitempty"`
}

// MenuCategoryCreate adds a category to the restaurant's menu.
func MenuCategoryCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateCategory(r.Context(), restaurantID, body.Name, body.Position)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// MenuCategoryList returns the restaurant's categories in display order.
func MenuCategoryList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListCategories(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// MenuCategoryRename renames one category.
func MenuCategoryRename(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body renameCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RenameCategory(r.Context(), id, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// MenuCategoryReorder replaces the display order of the restaurant's
// categories. The payload must name every category exactly once.
func MenuCategoryReorder(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reorderCategoriesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReorderCategories(r.Context(), restaurantID, body.OrderedIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

// MenuCategoryDelete removes a category; its items survive uncategorized.
func MenuCategoryDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MenuItemCreate adds a dish to the restaurant's menu.
func MenuItemCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createMenuItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateItem(r.Context(), restaurantID, menu.CreateItemInput{
			CategoryID:      body.CategoryID,
			Name:            body.Name,
			Description:     body.Description,
			Price:           body.Price,
			OnPromotion:     body.OnPromotion,
			DiscountedPrice: body.DiscountedPrice,
			ImageURL:        body.ImageURL,
			AddOns:          toAddOnInputs(body.AddOns),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// MenuItemDetail returns one dish with its add-ons.
func MenuItemDetail(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// MenuItemList returns the restaurant's dishes, optionally available only.
func MenuItemList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantId"), "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListItems(r.Context(), restaurantID, validators.ParseQueryBool(r, "available_only"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// MenuItemUpdate applies a partial dish update; a non-empty add-on list
// replaces the full set.
func MenuItemUpdate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMenuItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItem(r.Context(), id, menu.UpdateItemInput{
			CategoryID:      body.CategoryID,
			Name:            body.Name,
			Description:     body.Description,
			Price:           body.Price,
			OnPromotion:     body.OnPromotion,
			DiscountedPrice: body.DiscountedPrice,
			ImageURL:        body.ImageURL,
			IsAvailable:     body.IsAvailable,
			AddOns:          toAddOnInputs(body.AddOns),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// MenuItemDelete removes a dish.
func MenuItemDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func toAddOnInputs(payloads []addOnPayload) []menu.AddOnInput {
	if payloads == nil {
		return nil
	}
	addOns := make([]menu.AddOnInput, 0, len(payloads))
	for _, payload := range payloads {
		addOns = append(addOns, menu.AddOnInput{Name: payload.Name, Price: payload.Price})
	}
	return addOns
}
