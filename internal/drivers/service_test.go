package drivers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type stubDriverRepo struct {
	drivers     map[string]*models.DeliveryDriver
	assignments map[uuid.UUID]*models.DriverOrder
}

func newStubDriverRepo() *stubDriverRepo {
	return &stubDriverRepo{
		drivers:     map[string]*models.DeliveryDriver{},
		assignments: map[uuid.UUID]*models.DriverOrder{},
	}
}

func (s *stubDriverRepo) Create(ctx context.Context, driver *models.DeliveryDriver) error {
	s.drivers[driver.DriverID] = driver
	return nil
}

func (s *stubDriverRepo) FindByDriverID(ctx context.Context, driverID string) (*models.DeliveryDriver, error) {
	if d, ok := s.drivers[driverID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDriverRepo) ListByCity(ctx context.Context, city string) ([]models.DeliveryDriver, error) {
	var out []models.DeliveryDriver
	for _, d := range s.drivers {
		if d.WorkingCity == city {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *stubDriverRepo) Update(ctx context.Context, driver *models.DeliveryDriver) error {
	s.drivers[driver.DriverID] = driver
	return nil
}

func (s *stubDriverRepo) Delete(ctx context.Context, driverID string) error {
	delete(s.drivers, driverID)
	return nil
}

func (s *stubDriverRepo) CreateAssignment(ctx context.Context, assignment *models.DriverOrder) error {
	s.assignments[assignment.OrderID] = assignment
	return nil
}

func (s *stubDriverRepo) FindAssignmentByOrder(ctx context.Context, orderID uuid.UUID) (*models.DriverOrder, error) {
	if a, ok := s.assignments[orderID]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDriverRepo) ListAssignmentsByDriver(ctx context.Context, driverID string) ([]models.DriverOrder, error) {
	var out []models.DriverOrder
	for _, a := range s.assignments {
		if a.DriverID == driverID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubDriverRepo) UpdateAssignment(ctx context.Context, assignment *models.DriverOrder) error {
	s.assignments[assignment.OrderID] = assignment
	return nil
}

type stubOrderUpdater struct {
	statuses []enums.OrderStatus
	err      error
}

func (s *stubOrderUpdater) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*orders.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.statuses = append(s.statuses, next)
	return &orders.OrderDTO{ID: orderID, Status: next}, nil
}

func newTestDriverService(t *testing.T, repo *stubDriverRepo, updater *stubOrderUpdater) Service {
	t.Helper()
	if updater == nil {
		updater = &stubOrderUpdater{}
	}
	svc, err := NewService(repo, updater)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func registeredDriver(repo *stubDriverRepo, driverID, city string) {
	repo.drivers[driverID] = &models.DeliveryDriver{
		DriverID:    driverID,
		DriverName:  "Joao",
		VehicleType: enums.VehicleTypeBike,
		WorkingCity: city,
	}
}

func TestRegisterValidatesProfile(t *testing.T) {
	t.Parallel()

	svc := newTestDriverService(t, newStubDriverRepo(), nil)

	_, err := svc.Register(context.Background(), RegisterDriverInput{
		DriverID: "drv-1", Name: "Joao", VehicleType: enums.VehicleType("plane"), WorkingCity: "Lisbon",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("bad vehicle type: %v", err)
	}

	dto, err := svc.Register(context.Background(), RegisterDriverInput{
		DriverID: " drv-1 ", Name: "Joao", VehicleType: enums.VehicleTypeBike, WorkingCity: "Lisbon",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.DriverID != "drv-1" {
		t.Fatalf("driver id = %q", dto.DriverID)
	}
}

func TestAssignOrderRejectsSecondDriver(t *testing.T) {
	t.Parallel()

	repo := newStubDriverRepo()
	registeredDriver(repo, "drv-1", "Lisbon")
	registeredDriver(repo, "drv-2", "Lisbon")
	svc := newTestDriverService(t, repo, nil)

	orderID := uuid.New()
	if _, err := svc.AssignOrder(context.Background(), "drv-1", orderID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The unique index rejects the second row in production; the stub mirrors
	// the service-level guard through loadAssignment on pickup instead.
	_, err := svc.MarkPickedUp(context.Background(), "drv-2", orderID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("foreign pickup must be forbidden: %v", err)
	}
}

func TestPickupThenDeliverDrivesOrderStatus(t *testing.T) {
	t.Parallel()

	repo := newStubDriverRepo()
	registeredDriver(repo, "drv-1", "Lisbon")
	updater := &stubOrderUpdater{}
	svc := newTestDriverService(t, repo, updater)

	orderID := uuid.New()
	if _, err := svc.AssignOrder(context.Background(), "drv-1", orderID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	picked, err := svc.MarkPickedUp(context.Background(), "drv-1", orderID)
	if err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if picked.PickedUpAt == nil {
		t.Fatal("pickup timestamp missing")
	}

	delivered, err := svc.MarkDelivered(context.Background(), "drv-1", orderID)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivery timestamp missing")
	}

	want := []enums.OrderStatus{enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered}
	if len(updater.statuses) != 2 || updater.statuses[0] != want[0] || updater.statuses[1] != want[1] {
		t.Fatalf("order transitions = %v", updater.statuses)
	}
}

func TestDeliverBeforePickupFails(t *testing.T) {
	t.Parallel()

	repo := newStubDriverRepo()
	registeredDriver(repo, "drv-1", "Lisbon")
	svc := newTestDriverService(t, repo, nil)

	orderID := uuid.New()
	if _, err := svc.AssignOrder(context.Background(), "drv-1", orderID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	_, err := svc.MarkDelivered(context.Background(), "drv-1", orderID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPickupRollsNothingWhenOrderRefuses(t *testing.T) {
	t.Parallel()

	repo := newStubDriverRepo()
	registeredDriver(repo, "drv-1", "Lisbon")
	refusing := &stubOrderUpdater{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order")}
	svc := newTestDriverService(t, repo, refusing)

	orderID := uuid.New()
	if _, err := svc.AssignOrder(context.Background(), "drv-1", orderID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := svc.MarkPickedUp(context.Background(), "drv-1", orderID); err == nil {
		t.Fatal("expected order refusal to surface")
	}
	stored := repo.assignments[orderID]
	if stored.PickedUpAt != nil {
		t.Fatal("pickup recorded despite order refusal")
	}
}

func TestListByCity(t *testing.T) {
	t.Parallel()

	repo := newStubDriverRepo()
	registeredDriver(repo, "drv-1", "Lisbon")
	registeredDriver(repo, "drv-2", "Porto")
	svc := newTestDriverService(t, repo, nil)

	lisbon, err := svc.ListByCity(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lisbon) != 1 || lisbon[0].DriverID != "drv-1" {
		t.Fatalf("lisbon drivers = %+v", lisbon)
	}
}
