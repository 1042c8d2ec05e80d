package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

func setupPromotionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS promotions (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  code TEXT NOT NULL,
  description TEXT NOT NULL,
  discount_percentage REAL NOT NULL,
  max_discount REAL,
  min_order_amount REAL NOT NULL DEFAULT 0,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (restaurant_id, code)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedPromotion(t *testing.T, repo *Repository, restaurantID uuid.UUID, code string, active bool, starts, ends time.Time) *models.Promotion {
	t.Helper()
	promo := &models.Promotion{
		ID:                 uuid.New(),
		RestaurantID:       restaurantID,
		Code:               code,
		Description:        "test promo",
		DiscountPercentage: 15,
		MinOrderAmount:     10,
		StartsAt:           starts,
		EndsAt:             ends,
		IsActive:           active,
	}
	require.NoError(t, repo.Create(context.Background(), promo))
	return promo
}

func TestRepositoryFindByCodeNormalizesInput(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupPromotionsTestDB(t))
	restaurantID := uuid.New()
	now := time.Now().UTC()
	seeded := seedPromotion(t, repo, restaurantID, "SAVE15", true, now.Add(-time.Hour), now.Add(time.Hour))

	found, err := repo.FindByCode(context.Background(), restaurantID, "  save15 ")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "SAVE15", found.Code)

	_, err = repo.FindByCode(context.Background(), uuid.New(), "SAVE15")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveFiltersWindowAndFlag(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupPromotionsTestDB(t))
	restaurantID := uuid.New()
	now := time.Now().UTC()

	live := seedPromotion(t, repo, restaurantID, "LIVE", true, now.Add(-time.Hour), now.Add(time.Hour))
	seedPromotion(t, repo, restaurantID, "EXPIRED", true, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	seedPromotion(t, repo, restaurantID, "DISABLED", false, now.Add(-time.Hour), now.Add(time.Hour))
	seedPromotion(t, repo, restaurantID, "UPCOMING", true, now.Add(24*time.Hour), now.Add(48*time.Hour))

	active, err := repo.ListActiveByRestaurant(context.Background(), restaurantID, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, live.ID, active[0].ID)

	all, err := repo.ListByRestaurant(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRepositoryCreateKeepsInactiveFlag(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupPromotionsTestDB(t))
	restaurantID := uuid.New()
	now := time.Now().UTC()
	promo := seedPromotion(t, repo, restaurantID, "PAUSED", false, now.Add(-time.Hour), now.Add(time.Hour))

	stored, err := repo.FindByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive, "inactive promotion must not come back active")
}

func TestRepositoryDeleteRemovesRow(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupPromotionsTestDB(t))
	restaurantID := uuid.New()
	now := time.Now().UTC()
	promo := seedPromotion(t, repo, restaurantID, "GONE", true, now.Add(-time.Hour), now.Add(time.Hour))

	require.NoError(t, repo.Delete(context.Background(), promo.ID))

	_, err := repo.FindByID(context.Background(), promo.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
