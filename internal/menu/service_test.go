package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/pkg/db/models"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type stubMenuRepo struct {
	categories map[uuid.UUID]*models.MenuItemCategory
	items      map[uuid.UUID]*models.MenuItem
	positions  map[uuid.UUID]int
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{
		categories: map[uuid.UUID]*models.MenuItemCategory{},
		items:      map[uuid.UUID]*models.MenuItem{},
		positions:  map[uuid.UUID]int{},
	}
}

func (s *stubMenuRepo) CreateCategory(ctx context.Context, category *models.MenuItemCategory) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return nil
}

func (s *stubMenuRepo) FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuItemCategory, error) {
	if c, ok := s.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItemCategory, error) {
	var out []models.MenuItemCategory
	for _, c := range s.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *stubMenuRepo) UpdateCategory(ctx context.Context, category *models.MenuItemCategory) error {
	s.categories[category.ID] = category
	return nil
}

func (s *stubMenuRepo) SetCategoryPosition(ctx context.Context, id uuid.UUID, position int) error {
	s.positions[id] = position
	if c, ok := s.categories[id]; ok {
		c.Position = position
	}
	return nil
}

func (s *stubMenuRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	delete(s.categories, id)
	for _, item := range s.items {
		if item.CategoryID != nil && *item.CategoryID == id {
			item.CategoryID = nil
		}
	}
	return nil
}

func (s *stubMenuRepo) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubMenuRepo) FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if item, ok := s.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) ListItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range s.items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if availableOnly && !item.IsAvailable {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *stubMenuRepo) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	s.items[item.ID] = item
	return nil
}

func (s *stubMenuRepo) ReplaceAddOns(ctx context.Context, itemID uuid.UUID, addOns []models.MenuItemAddOn) error {
	if item, ok := s.items[itemID]; ok {
		item.AddOns = addOns
	}
	return nil
}

func (s *stubMenuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func newTestService(t *testing.T, repo *stubMenuRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateItemValidatesPricing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubMenuRepo())
	restaurantID := uuid.New()

	_, err := svc.CreateItem(context.Background(), restaurantID, CreateItemInput{Name: "Burger", Price: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero price: %v", err)
	}

	bad := 12.0
	_, err = svc.CreateItem(context.Background(), restaurantID, CreateItemInput{
		Name: "Burger", Price: 10, OnPromotion: true, DiscountedPrice: &bad,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("discount above price: %v", err)
	}

	good := 8.0
	dto, err := svc.CreateItem(context.Background(), restaurantID, CreateItemInput{
		Name: "Burger", Price: 10, OnPromotion: true, DiscountedPrice: &good,
		AddOns: []AddOnInput{{Name: "Cheese", Price: 2}, {Name: "  ", Price: 1}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.IsAvailable {
		t.Fatal("new item must start available")
	}
	if len(dto.AddOns) != 1 || dto.AddOns[0].Name != "Cheese" {
		t.Fatalf("blank add-on names must be dropped: %+v", dto.AddOns)
	}
}

func TestCreateItemRejectsForeignCategory(t *testing.T) {
	t.Parallel()

	repo := newStubMenuRepo()
	otherCategory := &models.MenuItemCategory{ID: uuid.New(), RestaurantID: uuid.New(), Name: "Mains"}
	repo.categories[otherCategory.ID] = otherCategory
	svc := newTestService(t, repo)

	_, err := svc.CreateItem(context.Background(), uuid.New(), CreateItemInput{
		Name: "Burger", Price: 10, CategoryID: &otherCategory.ID,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemReplacesAddOns(t *testing.T) {
	t.Parallel()

	repo := newStubMenuRepo()
	item := &models.MenuItem{
		ID: uuid.New(), RestaurantID: uuid.New(), Name: "Burger", Price: 10, IsAvailable: true,
		AddOns: []models.MenuItemAddOn{{ID: uuid.New(), Name: "Cheese", Price: 2}},
	}
	repo.items[item.ID] = item
	svc := newTestService(t, repo)

	dto, err := svc.UpdateItem(context.Background(), item.ID, UpdateItemInput{
		AddOns: []AddOnInput{{Name: "Bacon", Price: 3}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(dto.AddOns) != 1 || dto.AddOns[0].Name != "Bacon" {
		t.Fatalf("add-ons = %+v", dto.AddOns)
	}
}

func TestReorderCategories(t *testing.T) {
	t.Parallel()

	repo := newStubMenuRepo()
	restaurantID := uuid.New()
	first := &models.MenuItemCategory{ID: uuid.New(), RestaurantID: restaurantID, Name: "Starters"}
	second := &models.MenuItemCategory{ID: uuid.New(), RestaurantID: restaurantID, Name: "Mains"}
	repo.categories[first.ID] = first
	repo.categories[second.ID] = second
	svc := newTestService(t, repo)

	if err := svc.ReorderCategories(context.Background(), restaurantID, []uuid.UUID{second.ID, first.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if repo.positions[second.ID] != 0 || repo.positions[first.ID] != 1 {
		t.Fatalf("positions = %v", repo.positions)
	}

	err := svc.ReorderCategories(context.Background(), restaurantID, []uuid.UUID{first.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("partial reorder must fail: %v", err)
	}

	err = svc.ReorderCategories(context.Background(), restaurantID, []uuid.UUID{first.ID, first.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("duplicate reorder must fail: %v", err)
	}
}

func TestDeleteCategoryDetachesItems(t *testing.T) {
	t.Parallel()

	repo := newStubMenuRepo()
	restaurantID := uuid.New()
	category := &models.MenuItemCategory{ID: uuid.New(), RestaurantID: restaurantID, Name: "Mains"}
	repo.categories[category.ID] = category
	item := &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, Name: "Burger", Price: 10, CategoryID: &category.ID}
	repo.items[item.ID] = item
	svc := newTestService(t, repo)

	if err := svc.DeleteCategory(context.Background(), category.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if item.CategoryID != nil {
		t.Fatal("item still references deleted category")
	}
}

func TestListItemsFiltersAvailability(t *testing.T) {
	t.Parallel()

	repo := newStubMenuRepo()
	restaurantID := uuid.New()
	repo.items[uuid.New()] = &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, Name: "On", Price: 5, IsAvailable: true}
	hidden := &models.MenuItem{ID: uuid.New(), RestaurantID: restaurantID, Name: "Off", Price: 5, IsAvailable: false}
	repo.items[hidden.ID] = hidden
	svc := newTestService(t, repo)

	visible, err := svc.ListItems(context.Background(), restaurantID, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 1 || visible[0].Name != "On" {
		t.Fatalf("visible = %+v", visible)
	}

	all, err := svc.ListItems(context.Background(), restaurantID, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d items", len(all))
	}
}
