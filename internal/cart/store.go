package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/redis"
)

// Store persists cart snapshots under a single well-known key per user.
// Load falls back to the empty state when the payload is missing or corrupt;
// Save failures are logged by the caller and never surfaced to the user.
type Store interface {
	Load(ctx context.Context, userID string) (State, error)
	Save(ctx context.Context, userID string, state State) error
	Delete(ctx context.Context, userID string) error
}

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type redisStore struct {
	kv          kvStore
	ttl         time.Duration
	taxRate     float64
	deliveryFee float64
	logg        *logger.Logger
}

// NewRedisStore builds the durable cart store on the shared redis client.
func NewRedisStore(kv *redis.Client, ttl time.Duration, taxRate, deliveryFee float64, logg *logger.Logger) (Store, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	return &redisStore{kv: kv, ttl: ttl, taxRate: taxRate, deliveryFee: deliveryFee, logg: logg}, nil
}

func (s *redisStore) Load(ctx context.Context, userID string) (State, error) {
	empty := EmptyState(s.taxRate, s.deliveryFee)
	raw, err := s.kv.Get(ctx, s.kv.CartKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return empty, nil
		}
		return empty, err
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupt payload: start fresh rather than failing the session.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID), "discarding unreadable cart payload")
		}
		return empty, nil
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}

	// Only fill in pricing fields the payload never carried; a stored zero
	// is a legitimate rate (0% tax, free delivery) and must survive a load.
	var present struct {
		TaxRate     *float64 `json:"taxRate"`
		DeliveryFee *float64 `json:"deliveryFee"`
	}
	_ = json.Unmarshal([]byte(raw), &present)
	if present.TaxRate == nil {
		state.TaxRate = s.taxRate
	}
	if present.DeliveryFee == nil {
		state.DeliveryFee = s.deliveryFee
	}
	return state, nil
}

func (s *redisStore) Save(ctx context.Context, userID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(userID), string(payload), s.ttl)
}

func (s *redisStore) Delete(ctx context.Context, userID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(userID))
}
