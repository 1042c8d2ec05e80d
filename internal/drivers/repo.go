package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles courier and assignment persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to driver operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new courier profile.
func (r *Repository) Create(ctx context.Context, driver *models.DeliveryDriver) error {
	return r.DB(ctx).Create(driver).Error
}

// FindByDriverID loads a courier by the externally issued driver id.
func (r *Repository) FindByDriverID(ctx context.Context, driverID string) (*models.DeliveryDriver, error) {
	var driver models.DeliveryDriver
	if err := r.DB(ctx).First(&driver, "driver_id = ?", driverID).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// ListByCity returns the couriers registered for a working city.
func (r *Repository) ListByCity(ctx context.Context, city string) ([]models.DeliveryDriver, error) {
	var drivers []models.DeliveryDriver
	err := r.DB(ctx).
		Where("LOWER(working_city) = LOWER(?)", city).
		Order("driver_name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

// Update saves the courier profile.
func (r *Repository) Update(ctx context.Context, driver *models.DeliveryDriver) error {
	if driver == nil {
		return gorm.ErrInvalidData
	}
	return r.DB(ctx).Save(driver).Error
}

// Delete removes the courier profile.
func (r *Repository) Delete(ctx context.Context, driverID string) error {
	return r.DB(ctx).Delete(&models.DeliveryDriver{}, "driver_id = ?", driverID).Error
}

// CreateAssignment records the order handoff to a driver.
func (r *Repository) CreateAssignment(ctx context.Context, assignment *models.DriverOrder) error {
	return r.DB(ctx).Create(assignment).Error
}

// FindAssignmentByOrder loads the assignment for an order.
func (r *Repository) FindAssignmentByOrder(ctx context.Context, orderID uuid.UUID) (*models.DriverOrder, error) {
	var assignment models.DriverOrder
	if err := r.DB(ctx).First(&assignment, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsByDriver returns the driver's assignments, newest first.
func (r *Repository) ListAssignmentsByDriver(ctx context.Context, driverID string) ([]models.DriverOrder, error) {
	var assignments []models.DriverOrder
	err := r.DB(ctx).
		Where("driver_id = ?", driverID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpdateAssignment saves the assignment row.
func (r *Repository) UpdateAssignment(ctx context.Context, assignment *models.DriverOrder) error {
	if assignment == nil {
		return gorm.ErrInvalidData
	}
	return r.DB(ctx).Save(assignment).Error
}
