// Package server initializes and runs the opsdeck API server: it opens the
// database, applies migrations, bootstraps the first superuser, and serves
// the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdeck/opsdeck/internal/logging"
	"github.com/opsdeck/opsdeck/internal/server/config"
	"github.com/opsdeck/opsdeck/internal/server/httpapi"
	"github.com/opsdeck/opsdeck/internal/server/mailer"
	"github.com/opsdeck/opsdeck/internal/server/repositories/repomanager"
	"github.com/opsdeck/opsdeck/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	itemService *services.ItemService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	ml := mailer.NewLogMailer(logger)

	us := services.NewUserService(db, rm, ml, cfg)
	is := services.NewItemService(db, rm)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: us,
		itemService: is,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepare runs migrations and makes sure the bootstrap superuser exists.
func (app *App) prepare(ctx context.Context) error {
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	if err := app.userService.EnsureFirstSuperuser(ctx,
		app.config.FirstSuperuserEmail, app.config.FirstSuperuserPassword); err != nil {
		return fmt.Errorf("superuser bootstrap error: %w", err)
	}
	return nil
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if err := app.prepare(ctx); err != nil {
		return err
	}

	api := httpapi.NewServer(app.userService, app.itemService, app.logger, app.config)
	srv := &http.Server{
		Addr:    app.config.BindAddr,
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server starting", "addr", app.config.BindAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}

	app.logger.Info(ctx, "server stopped")
	return nil
}
