package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/quickplate/quickplate-backend/internal/cart"
	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type restaurantLookup interface {
	Location(ctx context.Context, id uuid.UUID) (types.GeoPoint, error)
}

type paymentProcessor interface {
	Charge(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod, amount float64) (string, error)
}

// Service turns a saved cart into a placed order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error)
}

type service struct {
	carts       cart.Store
	orders      orders.Service
	restaurants restaurantLookup
	payments    paymentProcessor
	logg        *logger.Logger
}

// NewService builds a checkout service with the provided collaborators.
func NewService(carts cart.Store, orderSvc orders.Service, restaurants restaurantLookup, payments paymentProcessor, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant lookup required")
	}
	if payments == nil {
		payments = SimulatedPayments{}
	}
	return &service{
		carts:       carts,
		orders:      orderSvc,
		restaurants: restaurants,
		payments:    payments,
		logg:        logg,
	}, nil
}

// PlaceOrderInput carries the delivery and payment details for checkout.
type PlaceOrderInput struct {
	ContactInfo          types.ContactInfo
	DeliveryAddress      types.DeliveryAddress
	DeliveryInstructions *string
	PaymentMethod        enums.PaymentMethod
}

// PlaceOrder validates the delivery details and the saved cart, charges the
// payment, creates the order, and finally clears the cart.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	snapshot, err := s.carts.Load(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}
	if snapshot.IsEmpty() || snapshot.RestaurantID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	restaurantID, err := uuid.Parse(*snapshot.RestaurantID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references an invalid restaurant")
	}
	restaurantLocation, err := s.restaurants.Location(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load restaurant")
	}

	orderInput, err := buildOrderInput(userID, restaurantID, snapshot, input, restaurantLocation)
	if err != nil {
		return nil, err
	}

	reference, err := s.payments.Charge(ctx, userID, input.PaymentMethod, snapshot.Total)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment failed")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "payment_ref", reference), "payment accepted")
	}

	order, err := s.orders.Create(ctx, orderInput)
	if err != nil {
		return nil, err
	}

	// The order exists either way; a stale cart is an annoyance, not a failure.
	if err := s.carts.Delete(ctx, userID.String()); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "cart clear after checkout failed: "+err.Error())
	}

	return order, nil
}

func validateInput(input PlaceOrderInput) error {
	var problems error
	if strings.TrimSpace(input.ContactInfo.Name) == "" {
		problems = multierr.Append(problems, fmt.Errorf("contact name is required"))
	}
	if strings.TrimSpace(input.ContactInfo.Phone) == "" {
		problems = multierr.Append(problems, fmt.Errorf("contact phone is required"))
	}
	if strings.TrimSpace(input.DeliveryAddress.Street) == "" {
		problems = multierr.Append(problems, fmt.Errorf("delivery street is required"))
	}
	if strings.TrimSpace(input.DeliveryAddress.City) == "" {
		problems = multierr.Append(problems, fmt.Errorf("delivery city is required"))
	}
	if !input.PaymentMethod.IsValid() {
		problems = multierr.Append(problems, fmt.Errorf("payment method is required"))
	}
	if problems == nil {
		return nil
	}

	messages := []string{}
	for _, err := range multierr.Errors(problems) {
		messages = append(messages, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout details are incomplete").
		WithDetails(map[string]any{"problems": messages})
}

func buildOrderInput(userID, restaurantID uuid.UUID, snapshot cart.State, input PlaceOrderInput, restaurantLocation types.GeoPoint) (orders.CreateOrderInput, error) {
	items := make([]orders.LineItemInput, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		menuItemID, err := uuid.Parse(line.ID)
		if err != nil {
			return orders.CreateOrderInput{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart item %q is no longer valid", line.Name))
		}
		item := orders.LineItemInput{
			MenuItemID:    menuItemID,
			Name:          line.Name,
			Price:         line.Price,
			OriginalPrice: line.OriginalPrice,
			Quantity:      line.Quantity,
			ItemTotal:     line.ItemTotal,
		}
		if line.ImageURL != "" {
			imageURL := line.ImageURL
			item.ImageURL = &imageURL
		}
		for _, addOn := range line.AddOns {
			addOnID, err := uuid.Parse(addOn.ID)
			if err != nil {
				return orders.CreateOrderInput{}, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("add-on %q is no longer valid", addOn.Name))
			}
			item.AddOns = append(item.AddOns, orders.LineItemAddOnInput{
				AddOnID:  addOnID,
				Name:     addOn.Name,
				Price:    addOn.Price,
				Quantity: addOn.Quantity,
			})
		}
		items = append(items, item)
	}

	var promoCode *string
	if snapshot.Promotion != nil {
		code := snapshot.Promotion.Code
		promoCode = &code
	}

	return orders.CreateOrderInput{
		UserID:               userID,
		RestaurantID:         restaurantID,
		Items:                items,
		ContactInfo:          input.ContactInfo,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryInstructions: input.DeliveryInstructions,
		PaymentMethod:        input.PaymentMethod,
		Subtotal:             snapshot.Subtotal,
		TaxAmount:            snapshot.TaxAmount,
		DeliveryFee:          snapshot.DeliveryFee,
		DiscountAmount:       snapshot.DiscountAmount,
		Total:                snapshot.Total,
		PromotionCode:        promoCode,
		RestaurantLocation:   restaurantLocation,
		DeliveryLocation: types.GeoPoint{
			Latitude:  input.DeliveryAddress.Latitude,
			Longitude: input.DeliveryAddress.Longitude,
			Address:   input.DeliveryAddress.Street,
		},
	}, nil
}
