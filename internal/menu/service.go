package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type menuRepository interface {
	CreateCategory(ctx context.Context, category *models.MenuItemCategory) error
	FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuItemCategory, error)
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItemCategory, error)
	UpdateCategory(ctx context.Context, category *models.MenuItemCategory) error
	SetCategoryPosition(ctx context.Context, id uuid.UUID, position int) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, item *models.MenuItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	ReplaceAddOns(ctx context.Context, itemID uuid.UUID, addOns []models.MenuItemAddOn) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// Service exposes menu catalog management.
type Service interface {
	CreateCategory(ctx context.Context, restaurantID uuid.UUID, name string, position int) (*CategoryDTO, error)
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]CategoryDTO, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error)
	ReorderCategories(ctx context.Context, restaurantID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, restaurantID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo menuRepository
}

// NewService builds a menu service with the provided repository.
func NewService(repo menuRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItemInput captures the fields for a new dish.
type CreateItemInput struct {
	CategoryID      *uuid.UUID
	Name            string
	Description     *string
	Price           float64
	OnPromotion     bool
	DiscountedPrice *float64
	ImageURL        *string
	AddOns          []AddOnInput
}

// UpdateItemInput captures the mutable dish fields. A non-nil AddOns slice
// replaces the full add-on set.
type UpdateItemInput struct {
	CategoryID      *uuid.UUID
	Name            *string
	Description     *string
	Price           *float64
	OnPromotion     *bool
	DiscountedPrice *float64
	ImageURL        *string
	IsAvailable     *bool
	AddOns          []AddOnInput
}

// AddOnInput is one optional extra on a dish.
type AddOnInput struct {
	Name  string
	Price float64
}

// CategoryDTO is the outward category shape.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	Position     int       `json:"position"`
}

// ItemDTO is the outward dish shape.
type ItemDTO struct {
	ID              uuid.UUID  `json:"id"`
	RestaurantID    uuid.UUID  `json:"restaurant_id"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	Price           float64    `json:"price"`
	OnPromotion     bool       `json:"on_promotion"`
	DiscountedPrice *float64   `json:"discounted_price,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	IsAvailable     bool       `json:"is_available"`
	AddOns          []AddOnDTO `json:"add_ons"`
}

// AddOnDTO is the outward add-on shape.
type AddOnDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

func categoryDTO(m *models.MenuItemCategory) *CategoryDTO {
	return &CategoryDTO{ID: m.ID, RestaurantID: m.RestaurantID, Name: m.Name, Position: m.Position}
}

func itemDTO(m *models.MenuItem) *ItemDTO {
	addOns := make([]AddOnDTO, 0, len(m.AddOns))
	for _, a := range m.AddOns {
		addOns = append(addOns, AddOnDTO{ID: a.ID, Name: a.Name, Price: a.Price})
	}
	return &ItemDTO{
		ID:              m.ID,
		RestaurantID:    m.RestaurantID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		OnPromotion:     m.OnPromotion,
		DiscountedPrice: m.DiscountedPrice,
		ImageURL:        m.ImageURL,
		IsAvailable:     m.IsAvailable,
		AddOns:          addOns,
	}
}

func (s *service) CreateCategory(ctx context.Context, restaurantID uuid.UUID, name string, position int) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.MenuItemCategory{RestaurantID: restaurantID, Name: name, Position: position}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create category")
	}
	return categoryDTO(category), nil
}

func (s *service) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *categoryDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load category")
	}

	category.Name = name
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to rename category")
	}
	return categoryDTO(category), nil
}

// ReorderCategories rewrites Position to match the given id order. Every
// category of the restaurant must appear exactly once.
func (s *service) ReorderCategories(ctx context.Context, restaurantID uuid.UUID, orderedIDs []uuid.UUID) error {
	existing, err := s.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list categories")
	}
	if len(orderedIDs) != len(existing) {
		return pkgerrors.New(pkgerrors.CodeValidation, "reorder must include every category exactly once")
	}

	known := make(map[uuid.UUID]bool, len(existing))
	for _, category := range existing {
		known[category.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] || seen[id] {
			return pkgerrors.New(pkgerrors.CodeValidation, "reorder must include every category exactly once")
		}
		seen[id] = true
	}

	for position, id := range orderedIDs {
		if err := s.repo.SetCategoryPosition(ctx, id, position); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to reorder categories")
		}
	}
	return nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete category")
	}
	return nil
}

func (s *service) CreateItem(ctx context.Context, restaurantID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if err := validateItemPricing(strings.TrimSpace(input.Name), input.Price, input.OnPromotion, input.DiscountedPrice); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, restaurantID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	item := &models.MenuItem{
		RestaurantID:    restaurantID,
		CategoryID:      input.CategoryID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Price:           input.Price,
		OnPromotion:     input.OnPromotion,
		DiscountedPrice: input.DiscountedPrice,
		ImageURL:        input.ImageURL,
		IsAvailable:     true,
		AddOns:          buildAddOns(input.AddOns),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create menu item")
	}
	return itemDTO(item), nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load menu item")
	}
	return itemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]ItemDTO, error) {
	rows, err := s.repo.ListItems(ctx, restaurantID, availableOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list menu items")
	}
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *itemDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load menu item")
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.OnPromotion != nil {
		item.OnPromotion = *input.OnPromotion
	}
	if input.DiscountedPrice != nil {
		item.DiscountedPrice = input.DiscountedPrice
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, item.RestaurantID, *input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = input.CategoryID
	}

	if err := validateItemPricing(item.Name, item.Price, item.OnPromotion, item.DiscountedPrice); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update menu item")
	}

	if input.AddOns != nil {
		addOns := buildAddOns(input.AddOns)
		if err := s.repo.ReplaceAddOns(ctx, item.ID, addOns); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update add-ons")
		}
		item.AddOns = addOns
	}

	return itemDTO(item), nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load menu item")
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete menu item")
	}
	return nil
}

func (s *service) checkCategory(ctx context.Context, restaurantID, categoryID uuid.UUID) error {
	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load category")
	}
	if category.RestaurantID != restaurantID {
		return pkgerrors.New(pkgerrors.CodeValidation, "category belongs to a different restaurant")
	}
	return nil
}

func validateItemPricing(name string, price float64, onPromotion bool, discounted *float64) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if price <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item price must be positive")
	}
	if onPromotion {
		if discounted == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "promotional items need a discounted price")
		}
		if *discounted <= 0 || *discounted >= price {
			return pkgerrors.New(pkgerrors.CodeValidation, "discounted price must be positive and below the regular price")
		}
	}
	return nil
}

func buildAddOns(inputs []AddOnInput) []models.MenuItemAddOn {
	addOns := make([]models.MenuItemAddOn, 0, len(inputs))
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			continue
		}
		addOns = append(addOns, models.MenuItemAddOn{Name: name, Price: input.Price})
	}
	return addOns
}
