package cart

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/quickplate/quickplate-backend/pkg/redis"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) CartKey(userID string) string {
	return "qp:cart:" + userID
}

func newFakeStore(kv kvStore) Store {
	return &redisStore{kv: kv, ttl: time.Hour, taxRate: testTaxRate, deliveryFee: testDeliveryFee}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newFakeStore(kv)
	ctx := context.Background()

	restID := "rest-a"
	restName := "Restaurant A"
	maxDiscount := 3.0
	state := State{
		RestaurantID:   &restID,
		RestaurantName: &restName,
		Items: []LineItem{{
			ID: "item-1", Name: "Burger", Price: 10, OriginalPrice: 10, Quantity: 2,
			AddOns:    []AddOn{{ID: "addon-1", Name: "Cheese", Price: 2, Quantity: 1}},
			ItemTotal: 22,
		}},
		TaxRate:        0.10,
		TaxAmount:      1.90,
		DeliveryFee:    3.99,
		DiscountAmount: 3,
		Promotion:      &AppliedPromotion{Code: "SAVE20", DiscountPercentage: 20, MaxDiscount: &maxDiscount, MinOrderAmount: 15, Description: "20% off"},
		Subtotal:       22,
		Total:          24.89,
	}

	if err := store.Save(ctx, "user-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(state, loaded) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", state, loaded)
	}
}

func TestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore(newFakeKV())
	state, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.IsEmpty() || state.TaxRate != testTaxRate || state.DeliveryFee != testDeliveryFee {
		t.Fatalf("unexpected initial state: %+v", state)
	}
}

func TestStoreLoadCorruptFallsBack(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	kv.values[kv.CartKey("user-1")] = "{not json"
	store := newFakeStore(kv)

	state, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("corrupt payload must not error: %v", err)
	}
	if !state.IsEmpty() {
		t.Fatalf("expected empty fallback, got %+v", state)
	}
}

func TestStoreLoadKeepsZeroRates(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newFakeStore(kv)
	ctx := context.Background()

	state := EmptyState(0, 0)
	state.Items = []LineItem{{ID: "item-1", Name: "Burger", Price: 10, OriginalPrice: 10, Quantity: 1, ItemTotal: 10}}
	if err := store.Save(ctx, "user-1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TaxRate != 0 || loaded.DeliveryFee != 0 {
		t.Fatalf("stored zero rates were re-priced on load: %+v", loaded)
	}
}

func TestStoreLoadFillsMissingRates(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	kv.values[kv.CartKey("user-1")] = `{"items":[],"subtotal":0,"total":0}`
	store := newFakeStore(kv)

	loaded, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TaxRate != testTaxRate || loaded.DeliveryFee != testDeliveryFee {
		t.Fatalf("payload without rate fields must get the configured ones: %+v", loaded)
	}
}

func TestStoreSerializedFieldNames(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newFakeStore(kv)
	if err := store.Save(context.Background(), "user-1", EmptyState(testTaxRate, testDeliveryFee)); err != nil {
		t.Fatalf("save: %v", err)
	}

	var blob map[string]any
	if err := json.Unmarshal([]byte(kv.values[kv.CartKey("user-1")]), &blob); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{
		"restaurantId", "restaurantName", "items", "taxRate", "taxAmount",
		"deliveryFee", "discountAmount", "appliedPromotion", "subtotal", "total",
	} {
		if _, ok := blob[field]; !ok {
			t.Fatalf("serialized cart missing %q: %v", field, blob)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	store := newFakeStore(kv)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", EmptyState(testTaxRate, testDeliveryFee)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := kv.values[kv.CartKey("user-1")]; ok {
		t.Fatal("cart blob still present after delete")
	}
}
