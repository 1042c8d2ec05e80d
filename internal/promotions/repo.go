package promotions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles promotion persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to promotion operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new promotion row.
func (r *Repository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.DB(ctx).Create(promotion).Error
}

// FindByID loads a promotion by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.DB(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// FindByCode loads a promotion by restaurant and normalized code.
func (r *Repository) FindByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.DB(ctx).
		Where("restaurant_id = ? AND code = ?", restaurantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&promotion).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

// ListByRestaurant returns all promotions for the restaurant.
func (r *Repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.DB(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// ListActiveByRestaurant returns promotions that are live at the given time.
func (r *Repository) ListActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID, now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.DB(ctx).
		Where("restaurant_id = ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?", restaurantID, true, now, now).
		Order("created_at DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

// Update saves the provided promotion.
func (r *Repository) Update(ctx context.Context, promotion *models.Promotion) error {
	if promotion == nil {
		return gorm.ErrInvalidData
	}
	return r.DB(ctx).Save(promotion).Error
}

// Delete removes the promotion row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Promotion{}, "id = ?", id).Error
}
