package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/common"
	"github.com/opsdeck/opsdeck/internal/dbx"
	"github.com/opsdeck/opsdeck/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {

	query :=
		`INSERT INTO items (title, description, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.OwnerID).Scan(&item.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query :=
		`SELECT id, title, description, owner_id FROM items
		 WHERE id = $1
		 `

	item := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Title, &item.Description, &item.OwnerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context, skip, limit int64) ([]*models.Item, error) {
	query :=
		`SELECT id, title, description, owner_id FROM items
		 ORDER BY id
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID, skip, limit int64) ([]*models.Item, error) {
	query :=
		`SELECT id, title, description, owner_id FROM items
		 WHERE owner_id = $1
		 ORDER BY id
		 OFFSET $2 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM items WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	query :=
		`UPDATE items
		 SET title = $1, description = $2
		 WHERE id = $3
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.ID).Scan(&id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// DeleteByOwner removes every item the owner has. Deleting a user runs this
// in the same transaction as the user row delete.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	query := `DELETE FROM items WHERE owner_id = $1`

	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanItems(rows *sql.Rows) ([]*models.Item, error) {
	var result []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.OwnerID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
