package restaurants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type restaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, filter ListFilter) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	ReplaceCuisines(ctx context.Context, restaurant *models.Restaurant, cuisines []models.Cuisine) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type cuisineRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cuisine, error)
}

// Service exposes storefront operations.
type Service interface {
	Create(ctx context.Context, input CreateRestaurantInput) (*RestaurantDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error)
	List(ctx context.Context, query ListQuery) (*pagination.Page[RestaurantDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     restaurantRepository
	cuisines cuisineRepository
}

// NewService builds a restaurant service with the provided repositories.
func NewService(repo restaurantRepository, cuisines cuisineRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if cuisines == nil {
		return nil, fmt.Errorf("cuisine repository required")
	}
	return &service{repo: repo, cuisines: cuisines}, nil
}

// CreateRestaurantInput captures the fields for a new storefront.
type CreateRestaurantInput struct {
	Name         string
	Description  *string
	Address      string
	City         string
	Phone        string
	Email        *string
	ImageURL     *string
	OpeningHours []string
	Location     types.GeoPoint
	OwnerUserID  *uuid.UUID
	CuisineIDs   []uuid.UUID
}

// UpdateRestaurantInput captures the mutable storefront fields.
type UpdateRestaurantInput struct {
	Name         *string
	Description  *string
	Address      *string
	City         *string
	Phone        *string
	Email        *string
	ImageURL     *string
	OpeningHours []string
	Location     *types.GeoPoint
	IsActive     *bool
	CuisineIDs   []uuid.UUID
}

// ListQuery narrows and pages the public storefront listing.
type ListQuery struct {
	City      string
	CuisineID *uuid.UUID
	Search    string
	Limit     int
	Cursor    string
}

// RestaurantDTO is the outward storefront shape.
type RestaurantDTO struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Phone        string         `json:"phone"`
	Email        *string        `json:"email,omitempty"`
	ImageURL     *string        `json:"image_url,omitempty"`
	OpeningHours []string       `json:"opening_hours"`
	Location     types.GeoPoint `json:"location"`
	IsActive     bool           `json:"is_active"`
	Cuisines     []CuisineDTO   `json:"cuisines"`
}

// CuisineDTO is the cuisine tag attached to a restaurant.
type CuisineDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toDTO(m *models.Restaurant) *RestaurantDTO {
	cuisines := make([]CuisineDTO, 0, len(m.Cuisines))
	for _, c := range m.Cuisines {
		cuisines = append(cuisines, CuisineDTO{ID: c.ID, Name: c.Name})
	}
	return &RestaurantDTO{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Address:      m.Address,
		City:         m.City,
		Phone:        m.Phone,
		Email:        m.Email,
		ImageURL:     m.ImageURL,
		OpeningHours: []string(m.OpeningHours),
		Location:     m.Location,
		IsActive:     m.IsActive,
		Cuisines:     cuisines,
	}
}

func (s *service) Create(ctx context.Context, input CreateRestaurantInput) (*RestaurantDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant city is required")
	}

	cuisines, err := s.resolveCuisines(ctx, input.CuisineIDs)
	if err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		Name:         name,
		Description:  input.Description,
		Address:      input.Address,
		City:         input.City,
		Phone:        input.Phone,
		Email:        input.Email,
		ImageURL:     input.ImageURL,
		OpeningHours: pq.StringArray(input.OpeningHours),
		Location:     input.Location,
		IsActive:     true,
		OwnerUserID:  input.OwnerUserID,
		Cuisines:     cuisines,
	}
	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create restaurant")
	}
	return toDTO(restaurant), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load restaurant")
	}
	return toDTO(restaurant), nil
}

func (s *service) List(ctx context.Context, query ListQuery) (*pagination.Page[RestaurantDTO], error) {
	cursor, err := pagination.ParseCursor(query.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, ListFilter{
		City:      query.City,
		CuisineID: query.CuisineID,
		Search:    strings.TrimSpace(query.Search),
		Limit:     query.Limit,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list restaurants")
	}

	dtos := make([]RestaurantDTO, 0, len(rows))
	cursors := make(map[uuid.UUID]pagination.Cursor, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
		cursors[rows[i].ID] = pagination.Cursor{CreatedAt: rows[i].CreatedAt, ID: rows[i].ID}
	}

	page := pagination.BuildPage(dtos, query.Limit, func(dto RestaurantDTO) pagination.Cursor {
		return cursors[dto.ID]
	})
	return &page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load restaurant")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name cannot be blank")
		}
		restaurant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		restaurant.Description = input.Description
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}
	if input.City != nil {
		restaurant.City = *input.City
	}
	if input.Phone != nil {
		restaurant.Phone = *input.Phone
	}
	if input.Email != nil {
		restaurant.Email = input.Email
	}
	if input.ImageURL != nil {
		restaurant.ImageURL = input.ImageURL
	}
	if input.OpeningHours != nil {
		restaurant.OpeningHours = pq.StringArray(input.OpeningHours)
	}
	if input.Location != nil {
		restaurant.Location = *input.Location
	}
	if input.IsActive != nil {
		restaurant.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update restaurant")
	}

	if input.CuisineIDs != nil {
		cuisines, err := s.resolveCuisines(ctx, input.CuisineIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceCuisines(ctx, restaurant, cuisines); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cuisines")
		}
		restaurant.Cuisines = cuisines
	}

	return toDTO(restaurant), nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load restaurant")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to deactivate restaurant")
	}
	return nil
}

func (s *service) resolveCuisines(ctx context.Context, ids []uuid.UUID) ([]models.Cuisine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cuisines, err := s.cuisines.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cuisines")
	}
	if len(cuisines) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more cuisines do not exist")
	}
	return cuisines, nil
}
