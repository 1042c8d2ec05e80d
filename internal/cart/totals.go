package cart

import (
	"math"

	"github.com/shopspring/decimal"
)

// Totals is the derived monetary view of a cart state.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	DeliveryFee    float64
	Total          float64
}

// sanitize coerces non-finite monetary input to 0 so bad data never
// propagates NaN through the totals.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(sanitize(v))
}

// lineItemTotal computes price × quantity plus the add-on rows. Add-on
// quantities are not rescaled by the item quantity.
func lineItemTotal(price float64, quantity int, addOns []AddOn) float64 {
	if quantity < 0 {
		quantity = 0
	}
	total := money(price).Mul(decimal.NewFromInt(int64(quantity)))
	for _, addOn := range addOns {
		qty := addOn.Quantity
		if qty < 1 {
			qty = 1
		}
		total = total.Add(money(addOn.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total.Round(2).InexactFloat64()
}

// deriveTotals recomputes every derived field from the item list and the
// applied promotion. It is pure: the same state always yields the same totals.
func deriveTotals(s State) Totals {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(money(item.ItemTotal))
	}

	discount := decimal.Zero
	if s.Promotion != nil {
		discount = subtotal.Mul(money(s.Promotion.DiscountPercentage)).Div(decimal.NewFromInt(100))
		if s.Promotion.MaxDiscount != nil {
			if limit := money(*s.Promotion.MaxDiscount); discount.GreaterThan(limit) {
				discount = limit
			}
		}
	}

	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(money(s.TaxRate))

	fee := decimal.Zero
	if len(s.Items) > 0 {
		fee = money(s.DeliveryFee)
	}

	return Totals{
		Subtotal:       subtotal.Round(2).InexactFloat64(),
		DiscountAmount: discount.Round(2).InexactFloat64(),
		TaxAmount:      tax.Round(2).InexactFloat64(),
		DeliveryFee:    fee.Round(2).InexactFloat64(),
		Total:          discounted.Add(tax).Add(fee).Round(2).InexactFloat64(),
	}
}

// applyTotals writes the derived totals back onto the state.
func applyTotals(s *State) {
	t := deriveTotals(*s)
	s.Subtotal = t.Subtotal
	s.DiscountAmount = t.DiscountAmount
	s.TaxAmount = t.TaxAmount
	s.Total = t.Total
}
