package services

import (
	"context"
	"database/sql"

	"github.com/opsdeck/opsdeck/internal/common"
	"github.com/opsdeck/opsdeck/internal/server/models"
	"github.com/opsdeck/opsdeck/internal/server/repositories/repomanager"
)

// UpdateItemInput is a partial update. Nil fields are left unchanged.
type UpdateItemInput struct {
	Title       *string
	Description *string
}

// ItemService provides item CRUD. Superusers see and touch every item;
// everyone else only their own.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

// List returns a page of items visible to the actor plus the matching total.
func (s *ItemService) List(ctx context.Context, actor *models.User, skip, limit int64) ([]*models.Item, int64, error) {
	repo := s.repomanager.Items(s.db)

	if actor.IsSuperuser {
		list, err := repo.ListAll(ctx, skip, limit)
		if err != nil {
			return nil, 0, err
		}
		count, err := repo.CountAll(ctx)
		if err != nil {
			return nil, 0, err
		}
		return list, count, nil
	}

	list, err := repo.ListByOwner(ctx, actor.ID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.CountByOwner(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

// GetByID loads one item, enforcing ownership for regular users.
func (s *ItemService) GetByID(ctx context.Context, actor *models.User, id int64) (*models.Item, error) {
	item, err := s.repomanager.Items(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperuser && item.OwnerID != actor.ID {
		return nil, common.ErrorForbidden
	}
	return item, nil
}

// Create adds an item owned by the actor.
func (s *ItemService) Create(ctx context.Context, actor *models.User, title, description string) (*models.Item, error) {
	item := &models.Item{
		Title:       title,
		Description: description,
		OwnerID:     actor.ID,
	}
	return s.repomanager.Items(s.db).Create(ctx, item)
}

// Update applies a partial update, enforcing ownership for regular users.
func (s *ItemService) Update(ctx context.Context, actor *models.User, id int64, in UpdateItemInput) (*models.Item, error) {
	item, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}

	return s.repomanager.Items(s.db).Update(ctx, item)
}

// Delete removes one item, enforcing ownership for regular users.
func (s *ItemService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if _, err := s.GetByID(ctx, actor, id); err != nil {
		return err
	}
	return s.repomanager.Items(s.db).Delete(ctx, id)
}
