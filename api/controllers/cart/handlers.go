package cart

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/quickplate/quickplate-backend/api/middleware"
	"github.com/quickplate/quickplate-backend/api/responses"
	"github.com/quickplate/quickplate-backend/api/validators"
	cartsvc "github.com/quickplate/quickplate-backend/internal/cart"
	"github.com/quickplate/quickplate-backend/internal/promotions"
	"github.com/quickplate/quickplate-backend/pkg/config"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
)

// Deps bundles what every cart handler needs to bind an engine to the
// caller's saved snapshot.
type Deps struct {
	Store  cartsvc.Store
	Promos promotions.Service
	Cfg    config.CartConfig
	Logg   *logger.Logger
}

func (d Deps) engine(r *http.Request, confirm cartsvc.Confirmer) (*cartsvc.Engine, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	engine, err := cartsvc.NewEngine(r.Context(), userID, cartsvc.EngineParams{
		Store:       d.Store,
		Confirm:     confirm,
		Logger:      d.Logg,
		TaxRate:     d.Cfg.TaxRate,
		DeliveryFee: d.Cfg.DeliveryFee,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart unavailable")
	}
	return engine, nil
}

// CartFetch returns the caller's saved cart, empty if none.
func CartFetch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartAddItem puts an item in the cart. Adding from a different restaurant
// requires the confirm_replace flag; without it the request is refused and
// the cart left untouched.
func CartAddItem(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine, err := deps.engine(r, func(string) bool { return body.ConfirmReplace })
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		state := engine.State()
		conflicting := state.RestaurantID != nil && *state.RestaurantID != body.Item.RestaurantID && !state.IsEmpty()

		added := engine.AddItem(r.Context(), toMenuItemInput(body.Item), body.Quantity, toAddOns(body.AddOns))
		if !added {
			if conflicting {
				responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeStateConflict,
					"cart contains items from another restaurant; set confirm_replace to start over").
					WithDetails(map[string]any{"current_restaurant_id": *state.RestaurantID}))
				return
			}
			responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item could not be added"))
			return
		}

		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartUpdateQuantity sets the quantity on one line; zero or less removes it.
func CartUpdateQuantity(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine.UpdateQuantity(r.Context(), body.Key, body.Quantity)
		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartRemoveItem drops one line by its identity key.
func CartRemoveItem(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := url.PathUnescape(chi.URLParam(r, "itemKey"))
		if err != nil || key == "" {
			responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid item key"))
			return
		}

		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine.RemoveItem(r.Context(), key)
		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartClear resets the cart to empty.
func CartClear(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartApplyPromotion validates the code against the cart's restaurant and
// subtotal, then stores it. The engine re-checks the restaurant context so a
// cart that changed under the validation is left alone.
func CartApplyPromotion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Promos == nil {
			responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var body applyPromotionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		state := engine.State()
		if state.IsEmpty() || state.RestaurantID == nil {
			responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			return
		}

		restaurantID, err := validators.ParsePathUUID(*state.RestaurantID, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		userID, err := validators.ParsePathUUID(middleware.UserIDFromContext(r.Context()), "userId")
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		promo, err := deps.Promos.Validate(r.Context(), promotions.ValidateInput{
			Code:         body.Code,
			RestaurantID: restaurantID,
			UserID:       userID,
			OrderAmount:  state.Subtotal,
		})
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		applied := engine.ApplyPromotion(r.Context(), cartsvc.AppliedPromotion{
			Code:               promo.Code,
			DiscountPercentage: promo.DiscountPercentage,
			MaxDiscount:        promo.MaxDiscount,
			MinOrderAmount:     promo.MinOrderAmount,
			Description:        promo.Description,
		}, *state.RestaurantID)
		if !applied {
			responses.WriteError(r.Context(), deps.Logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed while validating the code"))
			return
		}

		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}

// CartRemovePromotion clears the applied code and its discount.
func CartRemovePromotion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := deps.engine(r, nil)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logg, w, err)
			return
		}

		engine.RemovePromotion(r.Context())
		responses.WriteSuccess(w, newCartView(engine.State()))
	}
}
