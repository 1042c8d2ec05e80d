package drivers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type driverRepository interface {
	Create(ctx context.Context, driver *models.DeliveryDriver) error
	FindByDriverID(ctx context.Context, driverID string) (*models.DeliveryDriver, error)
	ListByCity(ctx context.Context, city string) ([]models.DeliveryDriver, error)
	Update(ctx context.Context, driver *models.DeliveryDriver) error
	Delete(ctx context.Context, driverID string) error
	CreateAssignment(ctx context.Context, assignment *models.DriverOrder) error
	FindAssignmentByOrder(ctx context.Context, orderID uuid.UUID) (*models.DriverOrder, error)
	ListAssignmentsByDriver(ctx context.Context, driverID string) ([]models.DriverOrder, error)
	UpdateAssignment(ctx context.Context, assignment *models.DriverOrder) error
}

type orderStatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*orders.OrderDTO, error)
}

// Service exposes courier management and the delivery handoff.
type Service interface {
	Register(ctx context.Context, input RegisterDriverInput) (*DriverDTO, error)
	GetByDriverID(ctx context.Context, driverID string) (*DriverDTO, error)
	ListByCity(ctx context.Context, city string) ([]DriverDTO, error)
	Update(ctx context.Context, driverID string, input UpdateDriverInput) (*DriverDTO, error)
	Remove(ctx context.Context, driverID string) error

	AssignOrder(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error)
	MarkPickedUp(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error)
	MarkDelivered(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error)
	ListAssignments(ctx context.Context, driverID string) ([]AssignmentDTO, error)
}

type service struct {
	repo      driverRepository
	orderSvc  orderStatusUpdater
	now       func() time.Time
}

// NewService builds a driver service with the provided collaborators.
func NewService(repo driverRepository, orderSvc orderStatusUpdater) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("driver repository required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &service{repo: repo, orderSvc: orderSvc, now: time.Now}, nil
}

// RegisterDriverInput captures a new courier profile.
type RegisterDriverInput struct {
	DriverID      string
	Name          string
	Address       string
	Phone         string
	VehicleType   enums.VehicleType
	VehicleNumber string
	WorkingCity   string
}

// UpdateDriverInput captures the mutable courier fields.
type UpdateDriverInput struct {
	Name          *string
	Address       *string
	Phone         *string
	VehicleType   *enums.VehicleType
	VehicleNumber *string
	WorkingCity   *string
}

// DriverDTO is the outward courier shape.
type DriverDTO struct {
	DriverID      string            `json:"driver_id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Phone         string            `json:"phone"`
	VehicleType   enums.VehicleType `json:"vehicle_type"`
	VehicleNumber string            `json:"vehicle_number"`
	WorkingCity   string            `json:"working_city"`
}

// AssignmentDTO is the outward delivery handoff shape.
type AssignmentDTO struct {
	OrderID     uuid.UUID  `json:"order_id"`
	DriverID    string     `json:"driver_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

func driverDTO(m *models.DeliveryDriver) *DriverDTO {
	return &DriverDTO{
		DriverID:      m.DriverID,
		Name:          m.DriverName,
		Address:       m.DriverAddress,
		Phone:         m.DriverPhone,
		VehicleType:   m.VehicleType,
		VehicleNumber: m.VehicleNumber,
		WorkingCity:   m.WorkingCity,
	}
}

func assignmentDTO(m *models.DriverOrder) *AssignmentDTO {
	return &AssignmentDTO{
		OrderID:     m.OrderID,
		DriverID:    m.DriverID,
		AssignedAt:  m.AssignedAt,
		PickedUpAt:  m.PickedUpAt,
		DeliveredAt: m.DeliveredAt,
	}
}

func (s *service) Register(ctx context.Context, input RegisterDriverInput) (*DriverDTO, error) {
	if strings.TrimSpace(input.DriverID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver name is required")
	}
	if !input.VehicleType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle type")
	}
	if strings.TrimSpace(input.WorkingCity) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "working city is required")
	}

	driver := &models.DeliveryDriver{
		DriverID:      strings.TrimSpace(input.DriverID),
		DriverName:    strings.TrimSpace(input.Name),
		DriverAddress: input.Address,
		DriverPhone:   input.Phone,
		VehicleType:   input.VehicleType,
		VehicleNumber: input.VehicleNumber,
		WorkingCity:   input.WorkingCity,
	}
	if err := s.repo.Create(ctx, driver); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "driver id already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to register driver")
	}
	return driverDTO(driver), nil
}

func (s *service) GetByDriverID(ctx context.Context, driverID string) (*DriverDTO, error) {
	driver, err := s.loadDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return driverDTO(driver), nil
}

func (s *service) ListByCity(ctx context.Context, city string) ([]DriverDTO, error) {
	if strings.TrimSpace(city) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	rows, err := s.repo.ListByCity(ctx, city)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list drivers")
	}
	dtos := make([]DriverDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *driverDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, driverID string, input UpdateDriverInput) (*DriverDTO, error) {
	driver, err := s.loadDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		driver.DriverName = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		driver.DriverAddress = *input.Address
	}
	if input.Phone != nil {
		driver.DriverPhone = *input.Phone
	}
	if input.VehicleType != nil {
		if !input.VehicleType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vehicle type")
		}
		driver.VehicleType = *input.VehicleType
	}
	if input.VehicleNumber != nil {
		driver.VehicleNumber = *input.VehicleNumber
	}
	if input.WorkingCity != nil {
		driver.WorkingCity = *input.WorkingCity
	}

	if err := s.repo.Update(ctx, driver); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update driver")
	}
	return driverDTO(driver), nil
}

func (s *service) Remove(ctx context.Context, driverID string) error {
	if _, err := s.loadDriver(ctx, driverID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, driverID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to remove driver")
	}
	return nil
}

// AssignOrder hands the order to a driver. Each order takes exactly one
// driver; a second assignment is a conflict.
func (s *service) AssignOrder(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error) {
	if _, err := s.loadDriver(ctx, driverID); err != nil {
		return nil, err
	}

	assignment := &models.DriverOrder{
		OrderID:    orderID,
		DriverID:   driverID,
		AssignedAt: s.now().UTC(),
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already assigned to a driver")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to assign order")
	}
	return assignmentDTO(assignment), nil
}

// MarkPickedUp records the pickup and moves the order out for delivery.
func (s *service) MarkPickedUp(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error) {
	assignment, err := s.loadAssignment(ctx, driverID, orderID)
	if err != nil {
		return nil, err
	}
	if assignment.PickedUpAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already picked up")
	}

	if _, err := s.orderSvc.UpdateStatus(ctx, orderID, enums.OrderStatusOutForDelivery); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	assignment.PickedUpAt = &now
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record pickup")
	}
	return assignmentDTO(assignment), nil
}

// MarkDelivered records the drop-off and completes the order.
func (s *service) MarkDelivered(ctx context.Context, driverID string, orderID uuid.UUID) (*AssignmentDTO, error) {
	assignment, err := s.loadAssignment(ctx, driverID, orderID)
	if err != nil {
		return nil, err
	}
	if assignment.PickedUpAt == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has not been picked up")
	}
	if assignment.DeliveredAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
	}

	if _, err := s.orderSvc.UpdateStatus(ctx, orderID, enums.OrderStatusDelivered); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	assignment.DeliveredAt = &now
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record delivery")
	}
	return assignmentDTO(assignment), nil
}

func (s *service) ListAssignments(ctx context.Context, driverID string) ([]AssignmentDTO, error) {
	if _, err := s.loadDriver(ctx, driverID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAssignmentsByDriver(ctx, driverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list assignments")
	}
	dtos := make([]AssignmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *assignmentDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadDriver(ctx context.Context, driverID string) (*models.DeliveryDriver, error) {
	driver, err := s.repo.FindByDriverID(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load driver")
	}
	return driver, nil
}

func (s *service) loadAssignment(ctx context.Context, driverID string, orderID uuid.UUID) (*models.DriverOrder, error) {
	assignment, err := s.repo.FindAssignmentByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load assignment")
	}
	if assignment.DriverID != driverID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to a different driver")
	}
	return assignment, nil
}
