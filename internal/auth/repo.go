package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles user account persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to user operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new user account.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// FindByEmail loads a user by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
