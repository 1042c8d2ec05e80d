package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickplate/quickplate-backend/internal/repo"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
)

// Repository handles menu persistence for one restaurant's catalog.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to menu operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Rebind(tx)}
}

// CreateCategory persists a new menu category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.MenuItemCategory) error {
	return r.DB(ctx).Create(category).Error
}

// FindCategory loads a category by id.
func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.MenuItemCategory, error) {
	var category models.MenuItemCategory
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns the restaurant's categories in display order.
func (r *Repository) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItemCategory, error) {
	var categories []models.MenuItemCategory
	err := r.DB(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("position ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory saves the category row.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.MenuItemCategory) error {
	return r.DB(ctx).Save(category).Error
}

// SetCategoryPosition moves a category within the display order.
func (r *Repository) SetCategoryPosition(ctx context.Context, id uuid.UUID, position int) error {
	return r.DB(ctx).
		Model(&models.MenuItemCategory{}).
		Where("id = ?", id).
		Update("position", position).Error
}

// DeleteCategory removes the category; its items keep a null category.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.MenuItem{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.MenuItemCategory{}, "id = ?", id).Error
	})
}

// CreateItem persists a menu item with its add-ons.
func (r *Repository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB(ctx).Create(item).Error
}

// FindItem loads an item with add-ons preloaded.
func (r *Repository) FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.DB(ctx).
		Preload("AddOns").
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItems loads several items with add-ons preloaded.
func (r *Repository) FindItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.DB(ctx).
		Preload("AddOns").
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListItems returns the restaurant's items with add-ons preloaded.
func (r *Repository) ListItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	query := r.DB(ctx).
		Preload("AddOns").
		Where("restaurant_id = ?", restaurantID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem saves the item row without touching add-ons.
func (r *Repository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return gorm.ErrInvalidData
	}
	return r.DB(ctx).Omit("AddOns").Save(item).Error
}

// ReplaceAddOns swaps the item's add-on rows inside one transaction.
func (r *Repository) ReplaceAddOns(ctx context.Context, itemID uuid.UUID, addOns []models.MenuItemAddOn) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MenuItemAddOn{}, "menu_item_id = ?", itemID).Error; err != nil {
			return err
		}
		if len(addOns) == 0 {
			return nil
		}
		for i := range addOns {
			addOns[i].MenuItemID = itemID
		}
		return tx.Create(&addOns).Error
	})
}

// DeleteItem removes the item; add-ons cascade.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.MenuItem{}, "id = ?", id).Error
}
