package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type promotionRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	FindByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*models.Promotion, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Promotion, error)
	ListActiveByRestaurant(ctx context.Context, restaurantID uuid.UUID, now time.Time) ([]models.Promotion, error)
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes promotion management and validation.
type Service interface {
	Create(ctx context.Context, restaurantID uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PromotionDTO, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, activeOnly bool) ([]PromotionDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Validate(ctx context.Context, input ValidateInput) (*PromotionDTO, error)
}

type service struct {
	repo promotionRepository
	now  func() time.Time
}

// NewService builds a promotion service with the provided repository.
func NewService(repo promotionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// CreatePromotionInput captures the fields for a new promotion.
type CreatePromotionInput struct {
	Code               string
	Description        string
	DiscountPercentage float64
	MaxDiscount        *float64
	MinOrderAmount     float64
	StartsAt           time.Time
	EndsAt             time.Time
}

// UpdatePromotionInput captures the mutable promotion fields.
type UpdatePromotionInput struct {
	Description        *string
	DiscountPercentage *float64
	MaxDiscount        *float64
	MinOrderAmount     *float64
	StartsAt           *time.Time
	EndsAt             *time.Time
	IsActive           *bool
}

// ValidateInput is a request to check a code against a restaurant and order.
type ValidateInput struct {
	Code         string
	RestaurantID uuid.UUID
	UserID       uuid.UUID
	OrderAmount  float64
}

// PromotionDTO is the outward promotion shape.
type PromotionDTO struct {
	ID                 uuid.UUID `json:"id"`
	RestaurantID       uuid.UUID `json:"restaurant_id"`
	Code               string    `json:"code"`
	Description        string    `json:"description"`
	DiscountPercentage float64   `json:"discount_percentage"`
	MaxDiscount        *float64  `json:"max_discount,omitempty"`
	MinOrderAmount     float64   `json:"min_order_amount"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	IsActive           bool      `json:"is_active"`
}

func toDTO(p *models.Promotion) *PromotionDTO {
	return &PromotionDTO{
		ID:                 p.ID,
		RestaurantID:       p.RestaurantID,
		Code:               p.Code,
		Description:        p.Description,
		DiscountPercentage: p.DiscountPercentage,
		MaxDiscount:        p.MaxDiscount,
		MinOrderAmount:     p.MinOrderAmount,
		StartsAt:           p.StartsAt,
		EndsAt:             p.EndsAt,
		IsActive:           p.IsActive,
	}
}

func (s *service) Create(ctx context.Context, restaurantID uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion code is required")
	}
	if input.DiscountPercentage <= 0 || input.DiscountPercentage > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion window must end after it starts")
	}

	promotion := &models.Promotion{
		RestaurantID:       restaurantID,
		Code:               code,
		Description:        input.Description,
		DiscountPercentage: input.DiscountPercentage,
		MaxDiscount:        input.MaxDiscount,
		MinOrderAmount:     input.MinOrderAmount,
		StartsAt:           input.StartsAt,
		EndsAt:             input.EndsAt,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, promotion); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "promotion code already exists for this restaurant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create promotion")
	}
	return toDTO(promotion), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PromotionDTO, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load promotion")
	}
	return toDTO(promotion), nil
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, activeOnly bool) ([]PromotionDTO, error) {
	var (
		rows []models.Promotion
		err  error
	)
	if activeOnly {
		rows, err = s.repo.ListActiveByRestaurant(ctx, restaurantID, s.now())
	} else {
		rows, err = s.repo.ListByRestaurant(ctx, restaurantID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list promotions")
	}

	dtos := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error) {
	promotion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load promotion")
	}

	if input.Description != nil {
		promotion.Description = *input.Description
	}
	if input.DiscountPercentage != nil {
		if *input.DiscountPercentage <= 0 || *input.DiscountPercentage > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
		}
		promotion.DiscountPercentage = *input.DiscountPercentage
	}
	if input.MaxDiscount != nil {
		promotion.MaxDiscount = input.MaxDiscount
	}
	if input.MinOrderAmount != nil {
		promotion.MinOrderAmount = *input.MinOrderAmount
	}
	if input.StartsAt != nil {
		promotion.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		promotion.EndsAt = *input.EndsAt
	}
	if !promotion.EndsAt.After(promotion.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion window must end after it starts")
	}
	if input.IsActive != nil {
		promotion.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, promotion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update promotion")
	}
	return toDTO(promotion), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load promotion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete promotion")
	}
	return nil
}

// Validate checks a code against its restaurant's catalog and the current
// order amount. Rejections carry a reason detail so clients can show why.
func (s *service) Validate(ctx context.Context, input ValidateInput) (*PromotionDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion code is required")
	}

	promotion, err := s.repo.FindByCode(ctx, input.RestaurantID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejected("invalid_code", "invalid promotion code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up promotion")
	}

	if !promotion.IsLive(s.now()) {
		return nil, rejected("expired", "this promotion is not currently active")
	}
	if input.OrderAmount < promotion.MinOrderAmount {
		return nil, rejected("min_order_not_met",
			fmt.Sprintf("minimum order of $%.2f required", promotion.MinOrderAmount))
	}

	return toDTO(promotion), nil
}

func rejected(reason, msg string) error {
	return pkgerrors.New(pkgerrors.CodePromotion, msg).
		WithDetails(map[string]any{"reason": reason})
}
