// Package httpapi exposes the opsdeck services over HTTP/JSON. Routes live
// under /api/v1; errors use the {"detail": ...} envelope.
package httpapi

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/opsdeck/opsdeck/internal/logging"
	"github.com/opsdeck/opsdeck/internal/server/config"
	"github.com/opsdeck/opsdeck/internal/server/models"
	"github.com/opsdeck/opsdeck/internal/server/services"
)

// UserService is the account surface the handlers call.
type UserService interface {
	Login(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password, fullName string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	List(ctx context.Context, skip, limit int64) ([]*models.User, int64, error)
	Update(ctx context.Context, id int64, in services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	UpdateMe(ctx context.Context, userID int64, email, fullName *string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	DeleteMe(ctx context.Context, actor *models.User) error
	RecoverPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ItemService is the item surface the handlers call.
type ItemService interface {
	List(ctx context.Context, actor *models.User, skip, limit int64) ([]*models.Item, int64, error)
	Create(ctx context.Context, actor *models.User, title, description string) (*models.Item, error)
	Update(ctx context.Context, actor *models.User, id int64, in services.UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}

// Server bundles the handlers and their dependencies.
type Server struct {
	users  UserService
	items  ItemService
	logger logging.Logger
	secret []byte
}

func NewServer(users UserService, items ItemService, logger logging.Logger, cfg *config.Config) *Server {
	return &Server{
		users:  users,
		items:  items,
		logger: logger,
		secret: []byte(cfg.SecretKey),
	}
}

// Router builds the chi route tree: a health probe, rate-limited credential
// endpoints, and the bearer-authenticated API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(5, 10))
			r.Post("/login", s.handleLogin)
			r.Post("/password-recovery", s.handleRecoverPassword)
			r.Post("/reset-password", s.handleResetPassword)
			r.Post("/users/signup", s.handleSignUp)
		})

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.secret, s.users))

			r.Get("/users/me", s.handleCurrentUser)
			r.Patch("/users/me", s.handleUpdateMe)
			r.Delete("/users/me", s.handleDeleteMe)
			r.Patch("/users/me/password", s.handleUpdatePassword)

			r.Group(func(r chi.Router) {
				r.Use(RequireSuperuser)
				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
				r.Patch("/users/{id}", s.handleUpdateUser)
				r.Delete("/users/{id}", s.handleDeleteUser)
			})

			r.Get("/items", s.handleListItems)
			r.Post("/items", s.handleCreateItem)
			r.Patch("/items/{id}", s.handleUpdateItem)
			r.Delete("/items/{id}", s.handleDeleteItem)
		})
	})

	return r
}
