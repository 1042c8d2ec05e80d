package restaurants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/types"
)

// Locator resolves a storefront's pickup coordinates for checkout.
type Locator struct {
	repo *Repository
}

func NewLocator(repo *Repository) *Locator {
	return &Locator{repo: repo}
}

func (l *Locator) Location(ctx context.Context, id uuid.UUID) (types.GeoPoint, error) {
	record, err := l.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.GeoPoint{}, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return types.GeoPoint{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load restaurant")
	}
	return record.Location, nil
}
