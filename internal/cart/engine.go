package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/quickplate/quickplate-backend/pkg/logger"
)

// Confirmer resolves a destructive-replacement prompt on behalf of the user.
// The HTTP layer maps it to an explicit flag on the request; tests supply a
// canned answer. Returning false leaves the cart untouched.
type Confirmer func(prompt string) bool

// Engine owns one user's cart: every mutation goes through it, totals are
// re-derived after each one, and the snapshot is written back to the store
// best-effort (a failed write never fails the mutation).
type Engine struct {
	store   Store
	confirm Confirmer
	logg    *logger.Logger
	userID  string
	state   State
}

// EngineParams wires the engine's collaborators.
type EngineParams struct {
	Store       Store
	Confirm     Confirmer
	Logger      *logger.Logger
	TaxRate     float64
	DeliveryFee float64
}

// NewEngine loads the user's saved cart and binds an engine to it. A missing
// or unreadable snapshot starts an empty cart; a store read error does too,
// after logging, so the session always begins usable.
func NewEngine(ctx context.Context, userID string, params EngineParams) (*Engine, error) {
	if params.Store == nil {
		return nil, errors.New("cart store required")
	}
	if userID == "" {
		return nil, errors.New("user id required")
	}
	confirm := params.Confirm
	if confirm == nil {
		confirm = func(string) bool { return false }
	}

	e := &Engine{
		store:   params.Store,
		confirm: confirm,
		logg:    params.Logger,
		userID:  userID,
	}

	state, err := params.Store.Load(ctx, userID)
	if err != nil {
		if params.Logger != nil {
			params.Logger.Warn(ctx, "cart load failed, starting empty")
		}
		state = EmptyState(params.TaxRate, params.DeliveryFee)
	}
	e.state = state
	applyTotals(&e.state)
	return e, nil
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return e.state
}

// AddItem puts quantity units of the item (with the given add-on selection)
// in the cart. Adding from a different restaurant requires confirmation and
// then replaces the existing cart; a declined confirmation is a no-op.
// Returns whether the cart changed.
func (e *Engine) AddItem(ctx context.Context, item MenuItemInput, quantity int, addOns []AddOn) bool {
	if item.ID == "" || quantity < 1 {
		return false
	}

	if e.state.RestaurantID != nil && *e.state.RestaurantID != item.RestaurantID && len(e.state.Items) > 0 {
		prompt := fmt.Sprintf(
			"Your cart contains items from %s. Adding this item will clear your current cart. Continue?",
			restaurantLabel(e.state.RestaurantName),
		)
		if !e.confirm(prompt) {
			return false
		}
		e.state.Items = []LineItem{}
		e.state.RestaurantID = nil
		e.state.RestaurantName = nil
		e.state.Promotion = nil
	}

	normalized := normalizeAddOns(addOns)
	key := ItemKey(item.ID, normalized)

	found := false
	for i := range e.state.Items {
		if e.state.Items[i].Key() != key {
			continue
		}
		line := &e.state.Items[i]
		line.Quantity += quantity
		line.ItemTotal = lineItemTotal(line.Price, line.Quantity, line.AddOns)
		found = true
		break
	}

	if !found {
		price := sanitize(item.EffectivePrice())
		e.state.Items = append(e.state.Items, LineItem{
			ID:            item.ID,
			Name:          item.Name,
			Price:         price,
			OriginalPrice: sanitize(item.Price),
			Quantity:      quantity,
			ImageURL:      item.ImageURL,
			AddOns:        normalized,
			ItemTotal:     lineItemTotal(price, quantity, normalized),
		})
	}

	if e.state.RestaurantID == nil {
		id := item.RestaurantID
		name := item.RestaurantName
		e.state.RestaurantID = &id
		e.state.RestaurantName = &name
	}

	applyTotals(&e.state)
	e.persist(ctx)
	return true
}

// RemoveItem drops the line item with the given identity key. Emptying the
// cart resets the restaurant binding and any applied promotion.
func (e *Engine) RemoveItem(ctx context.Context, key string) {
	kept := e.state.Items[:0]
	for _, item := range e.state.Items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	e.state.Items = kept

	if len(e.state.Items) == 0 {
		e.state.RestaurantID = nil
		e.state.RestaurantName = nil
		e.state.Promotion = nil
	}

	applyTotals(&e.state)
	e.persist(ctx)
}

// UpdateQuantity sets the quantity for the line item with the given key.
// A quantity of zero or less removes the line entirely.
func (e *Engine) UpdateQuantity(ctx context.Context, key string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(ctx, key)
		return
	}

	for i := range e.state.Items {
		if e.state.Items[i].Key() != key {
			continue
		}
		line := &e.state.Items[i]
		line.Quantity = quantity
		line.ItemTotal = lineItemTotal(line.Price, quantity, line.AddOns)
		break
	}

	applyTotals(&e.state)
	e.persist(ctx)
}

// Clear resets the cart to its empty initial state, promotion included.
func (e *Engine) Clear(ctx context.Context) {
	e.state = EmptyState(e.state.TaxRate, e.state.DeliveryFee)
	applyTotals(&e.state)
	e.persist(ctx)
}

// ApplyPromotion stores a promotion the validator already approved.
// restaurantID is the context the validation was issued for: if the cart has
// since emptied or moved to another restaurant the stale result is discarded.
// The minimum order amount is enforced here, at apply time only; the
// promotion is not revoked if the cart later shrinks below it.
func (e *Engine) ApplyPromotion(ctx context.Context, promo AppliedPromotion, restaurantID string) bool {
	if e.state.RestaurantID == nil || *e.state.RestaurantID != restaurantID {
		return false
	}
	if e.state.Subtotal < sanitize(promo.MinOrderAmount) {
		return false
	}

	e.state.Promotion = &promo
	applyTotals(&e.state)
	e.persist(ctx)
	return true
}

// RemovePromotion clears the applied promotion and its discount.
func (e *Engine) RemovePromotion(ctx context.Context) {
	e.state.Promotion = nil
	applyTotals(&e.state)
	e.persist(ctx)
}

// persist writes the snapshot back. Failures are logged and swallowed: the
// in-memory cart stays correct for the session, worst case it is lost on the
// next load.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.userID, e.state); err != nil && e.logg != nil {
		e.logg.Warn(e.logg.WithUserID(ctx, e.userID), "cart save failed: "+err.Error())
	}
}

func normalizeAddOns(addOns []AddOn) []AddOn {
	normalized := make([]AddOn, 0, len(addOns))
	for _, addOn := range addOns {
		if addOn.ID == "" {
			continue
		}
		if addOn.Quantity < 1 {
			addOn.Quantity = 1
		}
		addOn.Price = sanitize(addOn.Price)
		normalized = append(normalized, addOn)
	}
	return normalized
}

func restaurantLabel(name *string) string {
	if name == nil || *name == "" {
		return "another restaurant"
	}
	return *name
}
