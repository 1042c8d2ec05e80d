package locations

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type stubLocationRepo struct {
	byDriver map[string]models.DriverLocation
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{byDriver: map[string]models.DriverLocation{}}
}

func (s *stubLocationRepo) Upsert(ctx context.Context, driverID string, latitude, longitude float64, at time.Time) error {
	s.byDriver[driverID] = models.DriverLocation{
		DriverID: driverID, Latitude: latitude, Longitude: longitude, RecordedAt: at,
	}
	return nil
}

func (s *stubLocationRepo) Find(ctx context.Context, driverID string) (*models.DriverLocation, error) {
	if l, ok := s.byDriver[driverID]; ok {
		return &l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *stubLocationRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestReportReplacesPreviousPosition(t *testing.T) {
	t.Parallel()

	repo := newStubLocationRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Report(context.Background(), "drv-1", 38.71, -9.14); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if _, err := svc.Report(context.Background(), "drv-1", 38.72, -9.15); err != nil {
		t.Fatalf("second report: %v", err)
	}

	latest, err := svc.Latest(context.Background(), "drv-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Latitude != 38.72 || latest.Longitude != -9.15 {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestReportRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubLocationRepo())

	for _, bad := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}} {
		_, err := svc.Report(context.Background(), "drv-1", bad[0], bad[1])
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("coordinates %v accepted: %v", bad, err)
		}
	}
}

func TestLatestUnknownDriver(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubLocationRepo())
	_, err := svc.Latest(context.Background(), "drv-404")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
