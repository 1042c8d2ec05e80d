package restaurants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
)

// ListFilter narrows the storefront listing.
type ListFilter struct {
	City      string
	CuisineID *uuid.UUID
	Search    string
	Limit     int
	Cursor    *pagination.Cursor
}

// Repository handles restaurant persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to restaurant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new restaurant with its cuisine associations.
func (r *Repository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.DB(ctx).Create(restaurant).Error
}

// FindByID loads a restaurant with its cuisines preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.DB(ctx).
		Preload("Cuisines").
		First(&restaurant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// List returns active restaurants matching the filter, newest first, fetching
// one row past the limit so the caller can detect another page.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Restaurant, error) {
	query := r.DB(ctx).
		Model(&models.Restaurant{}).
		Preload("Cuisines").
		Where("restaurants.is_active = ?", true)

	if filter.City != "" {
		query = query.Where("LOWER(restaurants.city) = LOWER(?)", filter.City)
	}
	if filter.Search != "" {
		query = query.Where("restaurants.name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.CuisineID != nil {
		query = query.
			Joins("JOIN restaurant_cuisines rc ON rc.restaurant_id = restaurants.id").
			Where("rc.cuisine_id = ?", *filter.CuisineID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(restaurants.created_at, restaurants.id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var restaurants []models.Restaurant
	err := query.
		Order("restaurants.created_at DESC, restaurants.id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Update saves the restaurant row without touching associations.
func (r *Repository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant == nil {
		return gorm.ErrInvalidData
	}
	return r.DB(ctx).Omit("Cuisines").Save(restaurant).Error
}

// ReplaceCuisines swaps the restaurant's cuisine set.
func (r *Repository) ReplaceCuisines(ctx context.Context, restaurant *models.Restaurant, cuisines []models.Cuisine) error {
	return r.DB(ctx).Model(restaurant).Association("Cuisines").Replace(cuisines)
}

// Deactivate soft-disables the storefront.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
