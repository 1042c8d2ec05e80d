package restaurants

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

type stubRestaurantRepo struct {
	byID       map[uuid.UUID]*models.Restaurant
	listRows   []models.Restaurant
	lastFilter ListFilter
}

func newStubRestaurantRepo() *stubRestaurantRepo {
	return &stubRestaurantRepo{byID: map[uuid.UUID]*models.Restaurant{}}
}

func (s *stubRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.ID == uuid.Nil {
		restaurant.ID = uuid.New()
	}
	s.byID[restaurant.ID] = restaurant
	return nil
}

func (s *stubRestaurantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRestaurantRepo) List(ctx context.Context, filter ListFilter) ([]models.Restaurant, error) {
	s.lastFilter = filter
	return s.listRows, nil
}

func (s *stubRestaurantRepo) Update(ctx context.Context, restaurant *models.Restaurant) error {
	s.byID[restaurant.ID] = restaurant
	return nil
}

func (s *stubRestaurantRepo) ReplaceCuisines(ctx context.Context, restaurant *models.Restaurant, cuisines []models.Cuisine) error {
	if stored, ok := s.byID[restaurant.ID]; ok {
		stored.Cuisines = cuisines
	}
	return nil
}

func (s *stubRestaurantRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if r, ok := s.byID[id]; ok {
		r.IsActive = false
	}
	return nil
}

type stubCuisineRepo struct {
	known map[uuid.UUID]models.Cuisine
}

func (s *stubCuisineRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cuisine, error) {
	var out []models.Cuisine
	for _, id := range ids {
		if c, ok := s.known[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo *stubRestaurantRepo, cuisines *stubCuisineRepo) Service {
	t.Helper()
	if cuisines == nil {
		cuisines = &stubCuisineRepo{known: map[uuid.UUID]models.Cuisine{}}
	}
	svc, err := NewService(repo, cuisines)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRequiresNameAndCity(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRestaurantRepo(), nil)

	_, err := svc.Create(context.Background(), CreateRestaurantInput{City: "Lisbon"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("missing name: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateRestaurantInput{Name: "Tasca"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("missing city: %v", err)
	}
}

func TestCreateAttachesKnownCuisines(t *testing.T) {
	t.Parallel()

	cuisineID := uuid.New()
	cuisines := &stubCuisineRepo{known: map[uuid.UUID]models.Cuisine{
		cuisineID: {ID: cuisineID, Name: "Portuguese"},
	}}
	svc := newTestService(t, newStubRestaurantRepo(), cuisines)

	dto, err := svc.Create(context.Background(), CreateRestaurantInput{
		Name:       "Tasca do Rio",
		City:       "Lisbon",
		Location:   types.GeoPoint{Latitude: 38.71, Longitude: -9.14},
		CuisineIDs: []uuid.UUID{cuisineID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(dto.Cuisines) != 1 || dto.Cuisines[0].Name != "Portuguese" {
		t.Fatalf("cuisines = %+v", dto.Cuisines)
	}
	if !dto.IsActive {
		t.Fatal("new restaurant must start active")
	}
}

func TestCreateRejectsUnknownCuisine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRestaurantRepo(), nil)

	_, err := svc.Create(context.Background(), CreateRestaurantInput{
		Name:       "Tasca",
		City:       "Lisbon",
		CuisineIDs: []uuid.UUID{uuid.New()},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPagesWithBufferRow(t *testing.T) {
	t.Parallel()

	repo := newStubRestaurantRepo()
	for i := 0; i < 3; i++ {
		repo.listRows = append(repo.listRows, models.Restaurant{
			ID:        uuid.New(),
			Name:      "Place",
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	svc := newTestService(t, repo, nil)

	page, err := svc.List(context.Background(), ListQuery{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if repo.lastFilter.Limit != 2 {
		t.Fatalf("filter limit = %d", repo.lastFilter.Limit)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRestaurantRepo(), nil)
	_, err := svc.List(context.Background(), ListQuery{Cursor: "garbage"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateReplacesCuisineSet(t *testing.T) {
	t.Parallel()

	cuisineID := uuid.New()
	cuisines := &stubCuisineRepo{known: map[uuid.UUID]models.Cuisine{
		cuisineID: {ID: cuisineID, Name: "Thai"},
	}}
	repo := newStubRestaurantRepo()
	restaurant := &models.Restaurant{ID: uuid.New(), Name: "Old Name", City: "Porto", IsActive: true}
	repo.byID[restaurant.ID] = restaurant
	svc := newTestService(t, repo, cuisines)

	name := "New Name"
	dto, err := svc.Update(context.Background(), restaurant.ID, UpdateRestaurantInput{
		Name:       &name,
		CuisineIDs: []uuid.UUID{cuisineID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "New Name" {
		t.Fatalf("name = %q", dto.Name)
	}
	if len(dto.Cuisines) != 1 || dto.Cuisines[0].Name != "Thai" {
		t.Fatalf("cuisines = %+v", dto.Cuisines)
	}
}

func TestDeactivateUnknownRestaurant(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRestaurantRepo(), nil)
	err := svc.Deactivate(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
