package repomanager

import (
	"context"
	"database/sql"

	"github.com/opsdeck/opsdeck/internal/dbx"
	"github.com/opsdeck/opsdeck/internal/server/repositories/items"
	"github.com/opsdeck/opsdeck/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
}
