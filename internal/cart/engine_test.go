package cart

import (
	"context"
	"errors"
	"testing"
)

const (
	testTaxRate     = 0.10
	testDeliveryFee = 3.99
)

type memStore struct {
	states  map[string]State
	saveErr error
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{states: map[string]State{}}
}

func (m *memStore) Load(ctx context.Context, userID string) (State, error) {
	if m.loadErr != nil {
		return EmptyState(testTaxRate, testDeliveryFee), m.loadErr
	}
	if state, ok := m.states[userID]; ok {
		return state, nil
	}
	return EmptyState(testTaxRate, testDeliveryFee), nil
}

func (m *memStore) Save(ctx context.Context, userID string, state State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[userID] = state
	return nil
}

func (m *memStore) Delete(ctx context.Context, userID string) error {
	delete(m.states, userID)
	return nil
}

func confirmAlways(string) bool { return true }
func confirmNever(string) bool  { return false }

func newTestEngine(t *testing.T, store Store, confirm Confirmer) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), "user-1", EngineParams{
		Store:       store,
		Confirm:     confirm,
		TaxRate:     testTaxRate,
		DeliveryFee: testDeliveryFee,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

func burgerFromA() MenuItemInput {
	return MenuItemInput{
		ID:             "item-1",
		Name:           "Burger",
		Price:          10,
		RestaurantID:   "rest-a",
		RestaurantName: "Restaurant A",
	}
}

func cheeseAddOn() []AddOn {
	return []AddOn{{ID: "addon-1", Name: "Cheese", Price: 2, Quantity: 1}}
}

func TestAddItemWithAddOnTotals(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)

	if !engine.AddItem(context.Background(), burgerFromA(), 2, cheeseAddOn()) {
		t.Fatal("expected add to succeed")
	}

	state := engine.State()
	if len(state.Items) != 1 {
		t.Fatalf("expected one line item, got %d", len(state.Items))
	}
	if got := state.Items[0].ItemTotal; got != 22 {
		t.Fatalf("item total = %v, want 22", got)
	}
	if state.Subtotal != 22 {
		t.Fatalf("subtotal = %v, want 22", state.Subtotal)
	}
	if state.RestaurantID == nil || *state.RestaurantID != "rest-a" {
		t.Fatalf("restaurant binding not set: %+v", state.RestaurantID)
	}
}

func TestAddItemMergesByAddOnSignature(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()

	engine.AddItem(ctx, burgerFromA(), 1, cheeseAddOn())
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	// Different add-on selection is a distinct line.
	engine.AddItem(ctx, burgerFromA(), 1, nil)

	state := engine.State()
	if len(state.Items) != 2 {
		t.Fatalf("expected two line items, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", state.Items[0].Quantity)
	}
	// 3×10 + 2 add-on (add-on rows do not rescale with item quantity).
	if state.Items[0].ItemTotal != 32 {
		t.Fatalf("merged item total = %v, want 32", state.Items[0].ItemTotal)
	}
}

func TestAddItemUsesPromotionalPrice(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	item := burgerFromA()
	item.OnPromotion = true
	item.DiscountedPrice = 8

	engine.AddItem(context.Background(), item, 1, nil)

	line := engine.State().Items[0]
	if line.Price != 8 || line.OriginalPrice != 10 {
		t.Fatalf("price/original = %v/%v, want 8/10", line.Price, line.OriginalPrice)
	}
}

func TestCrossRestaurantAddDeclined(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 1, nil)

	pizza := MenuItemInput{ID: "item-9", Name: "Pizza", Price: 12, RestaurantID: "rest-b", RestaurantName: "Restaurant B"}
	if engine.AddItem(ctx, pizza, 1, nil) {
		t.Fatal("expected add to be declined")
	}

	state := engine.State()
	if len(state.Items) != 1 || state.Items[0].ID != "item-1" {
		t.Fatalf("cart changed after declined add: %+v", state.Items)
	}
	if *state.RestaurantID != "rest-a" {
		t.Fatalf("restaurant binding changed: %v", *state.RestaurantID)
	}
}

func TestCrossRestaurantAddConfirmedReplacesCart(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmAlways)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	engine.ApplyPromotion(ctx, AppliedPromotion{Code: "SAVE", DiscountPercentage: 10}, "rest-a")

	pizza := MenuItemInput{ID: "item-9", Name: "Pizza", Price: 12, RestaurantID: "rest-b", RestaurantName: "Restaurant B"}
	if !engine.AddItem(ctx, pizza, 1, nil) {
		t.Fatal("expected confirmed add to succeed")
	}

	state := engine.State()
	if len(state.Items) != 1 || state.Items[0].ID != "item-9" {
		t.Fatalf("expected prior items cleared, got %+v", state.Items)
	}
	if *state.RestaurantID != "rest-b" {
		t.Fatalf("restaurant binding = %v, want rest-b", *state.RestaurantID)
	}
	if state.Promotion != nil {
		t.Fatal("promotion should not survive a cart replacement")
	}
}

func TestRemoveLastItemResetsCart(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	engine.ApplyPromotion(ctx, AppliedPromotion{Code: "SAVE", DiscountPercentage: 10}, "rest-a")

	engine.RemoveItem(ctx, engine.State().Items[0].Key())

	state := engine.State()
	if !state.IsEmpty() {
		t.Fatalf("expected empty cart, got %d items", len(state.Items))
	}
	if state.RestaurantID != nil || state.RestaurantName != nil || state.Promotion != nil {
		t.Fatalf("expected reset bindings, got %+v", state)
	}
	if state.Subtotal != 0 || state.Total != 0 || state.DiscountAmount != 0 {
		t.Fatalf("expected zero totals, got %+v", state)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, nil)
	key := engine.State().Items[0].Key()

	engine.UpdateQuantity(ctx, key, 0)

	if !engine.State().IsEmpty() {
		t.Fatal("expected line removed at quantity 0")
	}
}

func TestUpdateQuantityNegativeEquivalentToRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	removed := newTestEngine(t, newMemStore(), confirmNever)
	removed.AddItem(ctx, burgerFromA(), 2, nil)
	removed.RemoveItem(ctx, removed.State().Items[0].Key())

	updated := newTestEngine(t, newMemStore(), confirmNever)
	updated.AddItem(ctx, burgerFromA(), 2, nil)
	updated.UpdateQuantity(ctx, updated.State().Items[0].Key(), -1)

	if removed.State().Subtotal != updated.State().Subtotal || removed.State().Total != updated.State().Total {
		t.Fatalf("totals diverge: %+v vs %+v", removed.State(), updated.State())
	}
}

func TestUpdateQuantityRecomputesLineTotal(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	key := engine.State().Items[0].Key()

	engine.UpdateQuantity(ctx, key, 5)

	line := engine.State().Items[0]
	if line.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", line.Quantity)
	}
	// 5×10 + 2: add-on quantity stays at its own count.
	if line.ItemTotal != 52 {
		t.Fatalf("item total = %v, want 52", line.ItemTotal)
	}
}

func TestApplyPromotionCapsDiscount(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())

	maxDiscount := 3.0
	ok := engine.ApplyPromotion(ctx, AppliedPromotion{
		Code:               "SAVE20",
		DiscountPercentage: 20,
		MaxDiscount:        &maxDiscount,
		MinOrderAmount:     15,
	}, "rest-a")
	if !ok {
		t.Fatal("expected promotion to apply")
	}

	state := engine.State()
	if state.DiscountAmount != 3 {
		t.Fatalf("discount = %v, want capped 3", state.DiscountAmount)
	}
	if state.TaxAmount != 1.90 {
		t.Fatalf("tax = %v, want 1.90", state.TaxAmount)
	}
	if state.Total != 24.89 {
		t.Fatalf("total = %v, want 24.89", state.Total)
	}
}

func TestApplyPromotionBelowMinimumRejected(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	before := engine.State()

	ok := engine.ApplyPromotion(ctx, AppliedPromotion{Code: "BIG", DiscountPercentage: 50, MinOrderAmount: 50}, "rest-a")
	if ok {
		t.Fatal("expected rejection below minimum order amount")
	}

	after := engine.State()
	if after.Promotion != nil || after.Total != before.Total {
		t.Fatalf("state changed on rejected promotion: %+v", after)
	}
}

func TestApplyPromotionStaleContextDiscarded(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, nil)
	// Validation was requested for rest-a, but the user emptied the cart
	// while it was in flight.
	engine.Clear(ctx)

	if engine.ApplyPromotion(ctx, AppliedPromotion{Code: "SAVE", DiscountPercentage: 10}, "rest-a") {
		t.Fatal("expected stale validation result to be discarded")
	}
}

func TestRemovePromotionResetsDiscount(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 2, cheeseAddOn())
	engine.ApplyPromotion(ctx, AppliedPromotion{Code: "SAVE", DiscountPercentage: 20}, "rest-a")

	engine.RemovePromotion(ctx)

	state := engine.State()
	if state.Promotion != nil || state.DiscountAmount != 0 {
		t.Fatalf("promotion not cleared: %+v", state)
	}
	if state.TaxAmount != 2.20 {
		t.Fatalf("tax after removal = %v, want 2.20", state.TaxAmount)
	}
}

func TestPersistenceFailureDoesNotBlockMutation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.saveErr = errors.New("storage quota exceeded")
	engine := newTestEngine(t, store, confirmNever)

	if !engine.AddItem(context.Background(), burgerFromA(), 1, nil) {
		t.Fatal("mutation should succeed despite save failure")
	}
	if engine.State().Subtotal != 10 {
		t.Fatalf("in-memory cart incorrect: %+v", engine.State())
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.loadErr = errors.New("storage unavailable")
	engine := newTestEngine(t, store, confirmNever)

	if !engine.State().IsEmpty() {
		t.Fatal("expected empty cart after load failure")
	}
}

func TestClearResetsEverything(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, newMemStore(), confirmNever)
	ctx := context.Background()
	engine.AddItem(ctx, burgerFromA(), 3, cheeseAddOn())
	engine.ApplyPromotion(ctx, AppliedPromotion{Code: "SAVE", DiscountPercentage: 10}, "rest-a")

	engine.Clear(ctx)

	state := engine.State()
	if !state.IsEmpty() || state.Promotion != nil || state.Total != 0 {
		t.Fatalf("clear left residue: %+v", state)
	}
	if state.TaxRate != testTaxRate || state.DeliveryFee != testDeliveryFee {
		t.Fatalf("pricing knobs lost on clear: %+v", state)
	}
}
