package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/enums"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

const publishTimeout = 10 * time.Second

// Event types emitted on the order stream.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the order lifecycle message consumed by downstream services
// (driver dispatch, notifications, replication).
type Event struct {
	EventID            string            `json:"event_id"`
	Type               string            `json:"type"`
	OrderID            uuid.UUID         `json:"order_id"`
	UserID             uuid.UUID         `json:"user_id"`
	RestaurantID       uuid.UUID         `json:"restaurant_id"`
	Status             enums.OrderStatus `json:"status"`
	PreviousStatus     *string           `json:"previous_status,omitempty"`
	Total              float64           `json:"total"`
	RestaurantLocation types.GeoPoint    `json:"restaurant_location"`
	DeliveryLocation   types.GeoPoint    `json:"delivery_location"`
	OccurredAt         time.Time         `json:"occurred_at"`
}

// EventPublisher pushes order events to the stream.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event Event) error
}

type gcpEventPublisher struct {
	pub *gcppubsub.Publisher
}

// NewEventPublisher wraps a Pub/Sub publisher for the order event stream.
func NewEventPublisher(pub *gcppubsub.Publisher) (EventPublisher, error) {
	if pub == nil {
		return nil, fmt.Errorf("orders publisher required")
	}
	return &gcpEventPublisher{pub: pub}, nil
}

func (p *gcpEventPublisher) PublishOrderEvent(ctx context.Context, event Event) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := p.pub.Publish(publishCtx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":    event.EventID,
			"event_type":  event.Type,
			"order_id":    event.OrderID.String(),
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
