package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/internal/cart"
	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type memCartStore struct {
	carts   map[string]cart.State
	deleted []string
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: map[string]cart.State{}}
}

func (m *memCartStore) Load(ctx context.Context, userID string) (cart.State, error) {
	if state, ok := m.carts[userID]; ok {
		return state, nil
	}
	return cart.EmptyState(0.10, 3.99), nil
}

func (m *memCartStore) Save(ctx context.Context, userID string, state cart.State) error {
	m.carts[userID] = state
	return nil
}

func (m *memCartStore) Delete(ctx context.Context, userID string) error {
	m.deleted = append(m.deleted, userID)
	delete(m.carts, userID)
	return nil
}

type stubOrders struct {
	created *orders.CreateOrderInput
}

func (s *stubOrders) Create(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	s.created = &input
	return &orders.OrderDTO{
		ID:           uuid.New(),
		UserID:       input.UserID,
		RestaurantID: input.RestaurantID,
		Status:       enums.OrderStatusPending,
		Total:        input.Total,
	}, nil
}

func (s *stubOrders) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, nil
}

func (s *stubOrders) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[orders.OrderDTO], error) {
	return nil, nil
}

func (s *stubOrders) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) (*pagination.Page[orders.OrderDTO], error) {
	return nil, nil
}

func (s *stubOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*orders.OrderDTO, error) {
	return nil, nil
}

func (s *stubOrders) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return nil, nil
}

type stubLookup struct{}

func (stubLookup) Location(ctx context.Context, id uuid.UUID) (types.GeoPoint, error) {
	return types.GeoPoint{Latitude: 38.71, Longitude: -9.14}, nil
}

type failingPayments struct{}

func (failingPayments) Charge(ctx context.Context, userID uuid.UUID, method enums.PaymentMethod, amount float64) (string, error) {
	return "", context.DeadlineExceeded
}

func savedCart(restaurantID uuid.UUID) cart.State {
	restID := restaurantID.String()
	restName := "Tasca do Rio"
	state := cart.State{
		RestaurantID:   &restID,
		RestaurantName: &restName,
		Items: []cart.LineItem{{
			ID: uuid.NewString(), Name: "Burger", Price: 10, OriginalPrice: 10, Quantity: 2,
			AddOns:    []cart.AddOn{{ID: uuid.NewString(), Name: "Cheese", Price: 2, Quantity: 1}},
			ItemTotal: 22,
		}},
		TaxRate:     0.10,
		TaxAmount:   2.20,
		DeliveryFee: 3.99,
		Subtotal:    22,
		Total:       28.19,
	}
	return state
}

func validCheckout() PlaceOrderInput {
	return PlaceOrderInput{
		ContactInfo: types.ContactInfo{Name: "Ana", Phone: "+351000000000", Email: "ana@example.com"},
		DeliveryAddress: types.DeliveryAddress{
			Street: "Rua A 1", City: "Lisbon", PostalCode: "1000-001",
			Latitude: 38.72, Longitude: -9.15,
		},
		PaymentMethod: enums.PaymentMethodCard,
	}
}

func newTestCheckout(t *testing.T, store cart.Store, orderSvc orders.Service, payments paymentProcessor) Service {
	t.Helper()
	svc, err := NewService(store, orderSvc, stubLookup{}, payments, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPlaceOrderSnapshotsCartAndClearsIt(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	restaurantID := uuid.New()
	store := newMemCartStore()
	store.carts[userID.String()] = savedCart(restaurantID)
	orderSvc := &stubOrders{}
	svc := newTestCheckout(t, store, orderSvc, nil)

	dto, err := svc.PlaceOrder(context.Background(), userID, validCheckout())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if dto.Total != 28.19 {
		t.Fatalf("total = %v", dto.Total)
	}
	if orderSvc.created == nil || orderSvc.created.RestaurantID != restaurantID {
		t.Fatalf("order input = %+v", orderSvc.created)
	}
	if len(orderSvc.created.Items) != 1 || len(orderSvc.created.Items[0].AddOns) != 1 {
		t.Fatalf("items = %+v", orderSvc.created.Items)
	}
	if len(store.deleted) != 1 || store.deleted[0] != userID.String() {
		t.Fatalf("cart not cleared: %v", store.deleted)
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newTestCheckout(t, newMemCartStore(), &stubOrders{}, nil)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validCheckout())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderAggregatesFieldProblems(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := newMemCartStore()
	store.carts[userID.String()] = savedCart(uuid.New())
	svc := newTestCheckout(t, store, &stubOrders{}, nil)

	_, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("details = %v", typed.Details())
	}
	problems, ok := details["problems"].([]string)
	if !ok || len(problems) < 4 {
		t.Fatalf("problems = %v", details["problems"])
	}
}

func TestPlaceOrderSurfacesPaymentFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := newMemCartStore()
	store.carts[userID.String()] = savedCart(uuid.New())
	orderSvc := &stubOrders{}
	svc := newTestCheckout(t, store, orderSvc, failingPayments{})

	_, err := svc.PlaceOrder(context.Background(), userID, validCheckout())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if orderSvc.created != nil {
		t.Fatal("order must not be created when payment fails")
	}
	if len(store.deleted) != 0 {
		t.Fatal("cart must survive a failed payment")
	}
}

func TestPlaceOrderPromotionCodeCarriesOver(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := newMemCartStore()
	state := savedCart(uuid.New())
	state.Promotion = &cart.AppliedPromotion{Code: "SAVE20", DiscountPercentage: 20}
	state.DiscountAmount = 3
	store.carts[userID.String()] = state
	orderSvc := &stubOrders{}
	svc := newTestCheckout(t, store, orderSvc, nil)

	if _, err := svc.PlaceOrder(context.Background(), userID, validCheckout()); err != nil {
		t.Fatalf("place order: %v", err)
	}
	if orderSvc.created.PromotionCode == nil || *orderSvc.created.PromotionCode != "SAVE20" {
		t.Fatalf("promotion code = %v", orderSvc.created.PromotionCode)
	}
	if orderSvc.created.DiscountAmount != 3 {
		t.Fatalf("discount = %v", orderSvc.created.DiscountAmount)
	}
}
