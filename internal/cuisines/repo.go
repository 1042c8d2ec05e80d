package cuisines

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles cuisine persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to cuisine operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new cuisine tag.
func (r *Repository) Create(ctx context.Context, cuisine *models.Cuisine) error {
	return r.DB(ctx).Create(cuisine).Error
}

// FindByID loads a cuisine by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cuisine, error) {
	var cuisine models.Cuisine
	if err := r.DB(ctx).First(&cuisine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cuisine, nil
}

// FindByIDs loads the cuisines matching the given ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&cuisines).Error; err != nil {
		return nil, err
	}
	return cuisines, nil
}

// FindByName loads a cuisine by case-insensitive name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Cuisine, error) {
	var cuisine models.Cuisine
	err := r.DB(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&cuisine).Error
	if err != nil {
		return nil, err
	}
	return &cuisine, nil
}

// ListAll returns every cuisine tag sorted by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	if err := r.DB(ctx).Order("name ASC").Find(&cuisines).Error; err != nil {
		return nil, err
	}
	return cuisines, nil
}

// Delete removes a cuisine tag.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Cuisine{}, "id = ?", id).Error
}
