package locations

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles driver position persistence. One row per driver holds
// the most recent report.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to location operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Upsert writes the driver's latest reported position.
func (r *Repository) Upsert(ctx context.Context, driverID string, latitude, longitude float64, at time.Time) error {
	location := models.DriverLocation{
		DriverID:   driverID,
		Latitude:   latitude,
		Longitude:  longitude,
		RecordedAt: at,
	}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "driver_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "recorded_at"}),
		}).
		Create(&location).Error
}

// Find loads the driver's last reported position.
func (r *Repository) Find(ctx context.Context, driverID string) (*models.DriverLocation, error) {
	var location models.DriverLocation
	if err := r.DB(ctx).First(&location, "driver_id = ?", driverID).Error; err != nil {
		return nil, err
	}
	return &location, nil
}
