package items

import (
	"context"

	"github.com/opsdeck/opsdeck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	ListAll(ctx context.Context, skip, limit int64) ([]*models.Item, error)
	CountAll(ctx context.Context) (int64, error)
	ListByOwner(ctx context.Context, ownerID, skip, limit int64) ([]*models.Item, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
}
