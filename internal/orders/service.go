package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/pagination"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// Service exposes order placement and lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo   orderRepository
	events EventPublisher
	logg   *logger.Logger
}

// NewService builds an order service. The event publisher is optional so the
// API can run without a Pub/Sub project in development.
func NewService(repo orderRepository, events EventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo, events: events, logg: logg}, nil
}

// CreateOrderInput is the order snapshot assembled at checkout.
type CreateOrderInput struct {
	UserID               uuid.UUID
	RestaurantID         uuid.UUID
	Items                []LineItemInput
	ContactInfo          types.ContactInfo
	DeliveryAddress      types.DeliveryAddress
	DeliveryInstructions *string
	PaymentMethod        enums.PaymentMethod
	Subtotal             float64
	TaxAmount            float64
	DeliveryFee          float64
	DiscountAmount       float64
	Total                float64
	PromotionCode        *string
	RestaurantLocation   types.GeoPoint
	DeliveryLocation     types.GeoPoint
}

// LineItemInput is one snapshotted cart line.
type LineItemInput struct {
	MenuItemID    uuid.UUID
	Name          string
	Price         float64
	OriginalPrice float64
	Quantity      int
	ImageURL      *string
	ItemTotal     float64
	AddOns        []LineItemAddOnInput
}

// LineItemAddOnInput is one snapshotted add-on row.
type LineItemAddOnInput struct {
	AddOnID  uuid.UUID
	Name     string
	Price    float64
	Quantity int
}

// OrderDTO is the outward order shape.
type OrderDTO struct {
	ID                   uuid.UUID             `json:"id"`
	UserID               uuid.UUID             `json:"user_id"`
	RestaurantID         uuid.UUID             `json:"restaurant_id"`
	Status               enums.OrderStatus     `json:"status"`
	Items                []LineItemDTO         `json:"items"`
	ContactInfo          types.ContactInfo     `json:"contact_info"`
	DeliveryAddress      types.DeliveryAddress `json:"delivery_address"`
	DeliveryInstructions *string               `json:"delivery_instructions,omitempty"`
	PaymentMethod        enums.PaymentMethod   `json:"payment_method"`
	Subtotal             float64               `json:"subtotal"`
	TaxAmount            float64               `json:"tax_amount"`
	DeliveryFee          float64               `json:"delivery_fee"`
	DiscountAmount       float64               `json:"discount_amount"`
	Total                float64               `json:"total"`
	PromotionCode        *string               `json:"promotion_code,omitempty"`
	CreatedAt            string                `json:"created_at"`
}

// LineItemDTO is one order line with its add-ons.
type LineItemDTO struct {
	MenuItemID    uuid.UUID     `json:"menu_item_id"`
	Name          string        `json:"name"`
	Price         float64       `json:"price"`
	OriginalPrice float64       `json:"original_price"`
	Quantity      int           `json:"quantity"`
	ImageURL      *string       `json:"image_url,omitempty"`
	ItemTotal     float64       `json:"item_total"`
	AddOns        []AddOnRowDTO `json:"add_ons"`
}

// AddOnRowDTO is one add-on row under an order line.
type AddOnRowDTO struct {
	AddOnID  uuid.UUID `json:"add_on_id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

func toDTO(m *models.Order) *OrderDTO {
	items := make([]LineItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		addOns := make([]AddOnRowDTO, 0, len(item.AddOns))
		for _, addOn := range item.AddOns {
			addOns = append(addOns, AddOnRowDTO{
				AddOnID:  addOn.AddOnID,
				Name:     addOn.Name,
				Price:    addOn.Price,
				Quantity: addOn.Quantity,
			})
		}
		items = append(items, LineItemDTO{
			MenuItemID:    item.MenuItemID,
			Name:          item.Name,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Quantity:      item.Quantity,
			ImageURL:      item.ImageURL,
			ItemTotal:     item.ItemTotal,
			AddOns:        addOns,
		})
	}
	return &OrderDTO{
		ID:                   m.ID,
		UserID:               m.UserID,
		RestaurantID:         m.RestaurantID,
		Status:               m.Status,
		Items:                items,
		ContactInfo:          m.ContactInfo,
		DeliveryAddress:      m.DeliveryAddress,
		DeliveryInstructions: m.DeliveryInstructions,
		PaymentMethod:        m.PaymentMethod,
		Subtotal:             m.Subtotal,
		TaxAmount:            m.TaxAmount,
		DeliveryFee:          m.DeliveryFee,
		DiscountAmount:       m.DiscountAmount,
		Total:                m.Total,
		PromotionCode:        m.PromotionCode,
		CreatedAt:            m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	order := &models.Order{
		UserID:               input.UserID,
		RestaurantID:         input.RestaurantID,
		Status:               enums.OrderStatusPending,
		ContactInfo:          input.ContactInfo,
		DeliveryAddress:      input.DeliveryAddress,
		DeliveryInstructions: input.DeliveryInstructions,
		PaymentMethod:        input.PaymentMethod,
		Subtotal:             input.Subtotal,
		TaxAmount:            input.TaxAmount,
		DeliveryFee:          input.DeliveryFee,
		DiscountAmount:       input.DiscountAmount,
		Total:                input.Total,
		PromotionCode:        input.PromotionCode,
		RestaurantLocation:   input.RestaurantLocation,
		DeliveryLocation:     input.DeliveryLocation,
	}
	for _, item := range input.Items {
		line := models.OrderLineItem{
			MenuItemID:    item.MenuItemID,
			Name:          item.Name,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Quantity:      item.Quantity,
			ImageURL:      item.ImageURL,
			ItemTotal:     item.ItemTotal,
		}
		for _, addOn := range item.AddOns {
			line.AddOns = append(line.AddOns, models.OrderLineItemAddOn{
				AddOnID:  addOn.AddOnID,
				Name:     addOn.Name,
				Price:    addOn.Price,
				Quantity: addOn.Quantity,
			})
		}
		order.Items = append(order.Items, line)
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
	}

	s.publish(ctx, Event{
		Type:               EventOrderCreated,
		OrderID:            order.ID,
		UserID:             order.UserID,
		RestaurantID:       order.RestaurantID,
		Status:             order.Status,
		Total:              order.Total,
		RestaurantLocation: order.RestaurantLocation,
		DeliveryLocation:   order.DeliveryLocation,
	})
	return toDTO(order), nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toDTO(order), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	rows, err := s.repo.ListByUser(ctx, userID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return buildPage(rows, params.Limit), nil
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, params pagination.Params) (*pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	rows, err := s.repo.ListByRestaurant(ctx, restaurantID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return buildPage(rows, params.Limit), nil
}

func buildPage(rows []models.Order, limit int) *pagination.Page[OrderDTO] {
	dtos := make([]OrderDTO, 0, len(rows))
	cursors := make(map[uuid.UUID]pagination.Cursor, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
		cursors[rows[i].ID] = pagination.Cursor{CreatedAt: rows[i].CreatedAt, ID: rows[i].ID}
	}
	page := pagination.BuildPage(dtos, limit, func(dto OrderDTO) pagination.Cursor {
		return cursors[dto.ID]
	})
	return &page
}

// UpdateStatus advances the order along the delivery pipeline. Only
// transitions allowed by the status machine are accepted.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next)).
			WithDetails(map[string]any{"from": order.Status.String(), "to": next.String()})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order status")
	}

	previous := order.Status.String()
	order.Status = next
	s.publish(ctx, Event{
		Type:               EventOrderStatusChanged,
		OrderID:            order.ID,
		UserID:             order.UserID,
		RestaurantID:       order.RestaurantID,
		Status:             next,
		PreviousStatus:     &previous,
		Total:              order.Total,
		RestaurantLocation: order.RestaurantLocation,
		DeliveryLocation:   order.DeliveryLocation,
	})
	return toDTO(order), nil
}

// Cancel lets the order's owner cancel while the pipeline still allows it.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to cancel order")
	}

	previous := order.Status.String()
	order.Status = enums.OrderStatusCancelled
	s.publish(ctx, Event{
		Type:               EventOrderStatusChanged,
		OrderID:            order.ID,
		UserID:             order.UserID,
		RestaurantID:       order.RestaurantID,
		Status:             order.Status,
		PreviousStatus:     &previous,
		Total:              order.Total,
		RestaurantLocation: order.RestaurantLocation,
		DeliveryLocation:   order.DeliveryLocation,
	})
	return toDTO(order), nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}

// publish pushes the event best-effort. The order row is already committed,
// so a stream failure is logged and the request still succeeds.
func (s *service) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, event); err != nil && s.logg != nil {
		s.logg.Error(ctx, "order event publish failed", err)
	}
}
