package cuisines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type cuisineRepository interface {
	Create(ctx context.Context, cuisine *models.Cuisine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cuisine, error)
	ListAll(ctx context.Context) ([]models.Cuisine, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes cuisine tag management.
type Service interface {
	Create(ctx context.Context, name string) (*CuisineDTO, error)
	List(ctx context.Context) ([]CuisineDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo cuisineRepository
}

// NewService builds a cuisine service with the provided repository.
func NewService(repo cuisineRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cuisine repository required")
	}
	return &service{repo: repo}, nil
}

// CuisineDTO is the outward cuisine shape.
type CuisineDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (s *service) Create(ctx context.Context, name string) (*CuisineDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cuisine name is required")
	}

	cuisine := &models.Cuisine{Name: name}
	if err := s.repo.Create(ctx, cuisine); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cuisine already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create cuisine")
	}
	return &CuisineDTO{ID: cuisine.ID, Name: cuisine.Name}, nil
}

func (s *service) List(ctx context.Context) ([]CuisineDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list cuisines")
	}
	dtos := make([]CuisineDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CuisineDTO{ID: row.ID, Name: row.Name})
	}
	return dtos, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cuisine not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cuisine")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete cuisine")
	}
	return nil
}
