package cart

import (
	cartsvc "github.com/quickplate/quickplate-backend/internal/cart"
)

// cartView wraps the snapshot with the derived unit count so clients can
// badge the cart without re-summing lines.
type cartView struct {
	Cart      cartsvc.State `json:"cart"`
	ItemCount int           `json:"item_count"`
}

func newCartView(state cartsvc.State) cartView {
	return cartView{
		Cart:      state,
		ItemCount: state.Count(),
	}
}
