// Package cli implements the interactive opsdeck admin console. The REPL
// dispatches to command handlers; handlers for authenticated views are
// wrapped by the route guard, which consults the session before any command
// body runs.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/opsdeck/opsdeck/internal/client/api"
	"github.com/opsdeck/opsdeck/internal/client/cache"
	"github.com/opsdeck/opsdeck/internal/client/config"
	"github.com/opsdeck/opsdeck/internal/client/models"
	"github.com/opsdeck/opsdeck/internal/client/resources"
	"github.com/opsdeck/opsdeck/internal/client/session"
	"github.com/opsdeck/opsdeck/internal/client/tokenstore"
)

// SessionService is the slice of the session controller the console needs.
type SessionService interface {
	Login(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, fullName string) error
	Logout() error
	HandleAuthRejection()
	IsLoggedIn() bool
	DeleteAccount(ctx context.Context) error
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ResourceService is the slice of the resource store the console needs.
type ResourceService interface {
	CurrentUser(ctx context.Context) (models.CurrentUser, error)
	Users(ctx context.Context) (models.UserList, error)
	Items(ctx context.Context) (models.ItemList, error)
	CreateUser(ctx context.Context, in models.UserCreate) error
	UpdateUser(ctx context.Context, id int64, in models.UserUpdate) error
	DeleteUser(ctx context.Context, id int64) error
	CreateItem(ctx context.Context, in models.ItemCreate) error
	UpdateItem(ctx context.Context, id int64, in models.ItemUpdate) error
	DeleteItem(ctx context.Context, id int64) error
	UpdateMe(ctx context.Context, in models.UserUpdateMe) error
	ChangePassword(ctx context.Context, current, newPassword string) error
}

type App struct {
	config  *config.Config
	session SessionService
	store   ResourceService
	guard   *Guard
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the client stack: file token store, API client resolving the
// token fresh per request, one shared cache, session controller, and
// resource store.
func NewApp(c *config.Config) (*App, error) {
	tokens, err := tokenstore.NewFileStore(c.TokenFile)
	if err != nil {
		return nil, err
	}

	client := api.New(c.ServerURL, c.RequestTimeout, tokens.Get)
	cch := cache.New()
	sess := session.NewController(tokens, client, cch)

	return &App{
		config:  c,
		session: sess,
		store:   resources.NewStore(client, cch),
		guard:   NewGuard(sess),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}
