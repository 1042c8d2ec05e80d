package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type locationRepository interface {
	Upsert(ctx context.Context, driverID string, latitude, longitude float64, at time.Time) error
	Find(ctx context.Context, driverID string) (*models.DriverLocation, error)
}

// Service tracks the last known position for each courier.
type Service interface {
	Report(ctx context.Context, driverID string, latitude, longitude float64) (*LocationDTO, error)
	Latest(ctx context.Context, driverID string) (*LocationDTO, error)
}

type service struct {
	repo locationRepository
	now  func() time.Time
}

// NewService builds a location service with the provided repository.
func NewService(repo locationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// LocationDTO is the outward position shape.
type LocationDTO struct {
	DriverID   string    `json:"driver_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Report stores the driver's current position, replacing the previous one.
func (s *service) Report(ctx context.Context, driverID string, latitude, longitude float64) (*LocationDTO, error) {
	if strings.TrimSpace(driverID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id is required")
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}

	at := s.now().UTC()
	if err := s.repo.Upsert(ctx, driverID, latitude, longitude, at); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store location")
	}
	return &LocationDTO{DriverID: driverID, Latitude: latitude, Longitude: longitude, RecordedAt: at}, nil
}

// Latest returns the driver's last reported position.
func (s *service) Latest(ctx context.Context, driverID string) (*LocationDTO, error) {
	location, err := s.repo.Find(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no location reported for driver")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load location")
	}
	return &LocationDTO{
		DriverID:   location.DriverID,
		Latitude:   location.Latitude,
		Longitude:  location.Longitude,
		RecordedAt: location.RecordedAt,
	}, nil
}
