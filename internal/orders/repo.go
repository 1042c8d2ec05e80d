package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
)

// Repository handles order persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists the order with its line items and add-ons in one insert.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

// FindByID loads an order with its line items preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items.AddOns").
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first, one row past the limit.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return r.list(ctx, "user_id = ?", userID, limit, cursor)
}

// ListByRestaurant returns the restaurant's orders, newest first, one row past the limit.
func (r *Repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return r.list(ctx, "restaurant_id = ?", restaurantID, limit, cursor)
}

func (r *Repository) list(ctx context.Context, where string, id uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.DB(ctx).
		Preload("Items.AddOns").
		Preload("Items").
		Where(where, id)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus writes the new status for the order.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
