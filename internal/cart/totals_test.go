package cart

import (
	"math"
	"reflect"
	"testing"
)

func TestDeriveTotalsIsPure(t *testing.T) {
	t.Parallel()

	maxDiscount := 3.0
	state := State{
		Items: []LineItem{
			{ID: "a", Price: 10, Quantity: 2, ItemTotal: 22, AddOns: []AddOn{{ID: "x", Price: 2, Quantity: 1}}},
		},
		TaxRate:     0.10,
		DeliveryFee: 3.99,
		Promotion:   &AppliedPromotion{Code: "SAVE20", DiscountPercentage: 20, MaxDiscount: &maxDiscount, MinOrderAmount: 15},
	}

	first := deriveTotals(state)
	second := deriveTotals(state)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation not idempotent: %+v vs %+v", first, second)
	}
}

func TestDeriveTotalsScenario(t *testing.T) {
	t.Parallel()

	maxDiscount := 3.0
	state := State{
		Items:       []LineItem{{ID: "a", Price: 10, Quantity: 2, ItemTotal: 22}},
		TaxRate:     0.10,
		DeliveryFee: 3.99,
		Promotion:   &AppliedPromotion{DiscountPercentage: 20, MaxDiscount: &maxDiscount},
	}

	totals := deriveTotals(state)
	if totals.Subtotal != 22 {
		t.Fatalf("subtotal = %v, want 22", totals.Subtotal)
	}
	// Raw discount 4.40 capped to 3.
	if totals.DiscountAmount != 3 {
		t.Fatalf("discount = %v, want 3", totals.DiscountAmount)
	}
	if totals.TaxAmount != 1.90 {
		t.Fatalf("tax = %v, want 1.90", totals.TaxAmount)
	}
	if totals.Total != 24.89 {
		t.Fatalf("total = %v, want 24.89", totals.Total)
	}
}

func TestDeriveTotalsNoCapUsesRawDiscount(t *testing.T) {
	t.Parallel()

	state := State{
		Items:       []LineItem{{ID: "a", ItemTotal: 50}},
		TaxRate:     0.10,
		DeliveryFee: 3.99,
		Promotion:   &AppliedPromotion{DiscountPercentage: 10},
	}

	totals := deriveTotals(state)
	if totals.DiscountAmount != 5 {
		t.Fatalf("discount = %v, want 5", totals.DiscountAmount)
	}
}

func TestDeriveTotalsEmptyCartChargesNoFee(t *testing.T) {
	t.Parallel()

	totals := deriveTotals(State{TaxRate: 0.10, DeliveryFee: 3.99})
	if totals.DeliveryFee != 0 || totals.Total != 0 {
		t.Fatalf("empty cart charged: %+v", totals)
	}
}

func TestDeriveTotalsDiscountCapHolds(t *testing.T) {
	t.Parallel()

	maxDiscount := 7.5
	for _, subtotal := range []float64{1, 10, 75, 500, 99999} {
		state := State{
			Items:     []LineItem{{ID: "a", ItemTotal: subtotal}},
			TaxRate:   0.10,
			Promotion: &AppliedPromotion{DiscountPercentage: 35, MaxDiscount: &maxDiscount},
		}
		if got := deriveTotals(state).DiscountAmount; got > maxDiscount {
			t.Fatalf("discount %v exceeds cap %v at subtotal %v", got, maxDiscount, subtotal)
		}
	}
}

func TestSanitizeCoercesNonFiniteToZero(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := sanitize(v); got != 0 {
			t.Fatalf("sanitize(%v) = %v, want 0", v, got)
		}
	}
	if got := sanitize(12.5); got != 12.5 {
		t.Fatalf("sanitize(12.5) = %v", got)
	}
}

func TestDeriveTotalsSanitizesPoisonedInput(t *testing.T) {
	t.Parallel()

	state := State{
		Items:       []LineItem{{ID: "a", ItemTotal: math.NaN()}, {ID: "b", ItemTotal: 20}},
		TaxRate:     0.10,
		DeliveryFee: 3.99,
	}

	totals := deriveTotals(state)
	if math.IsNaN(totals.Total) {
		t.Fatal("NaN propagated through totals")
	}
	if totals.Subtotal != 20 {
		t.Fatalf("subtotal = %v, want 20", totals.Subtotal)
	}
}

func TestLineItemTotalAddOnQuantities(t *testing.T) {
	t.Parallel()

	addOns := []AddOn{
		{ID: "x", Price: 2, Quantity: 2},
		{ID: "y", Price: 1.5, Quantity: 0}, // zero quantity counts as one row
	}
	if got := lineItemTotal(10, 2, addOns); got != 25.5 {
		t.Fatalf("line total = %v, want 25.5", got)
	}
}

func TestItemKeyIgnoresAddOnOrder(t *testing.T) {
	t.Parallel()

	a := []AddOn{{ID: "x", Quantity: 1}, {ID: "y", Quantity: 2}}
	b := []AddOn{{ID: "y", Quantity: 2}, {ID: "x", Quantity: 1}}
	if ItemKey("item", a) != ItemKey("item", b) {
		t.Fatal("add-on order changed identity")
	}
	if ItemKey("item", a) == ItemKey("item", a[:1]) {
		t.Fatal("different selections collide")
	}
	if ItemKey("item", nil) != "item" {
		t.Fatal("bare item key should be the item id")
	}
}
