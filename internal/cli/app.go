// Package cli wires the client together and exposes it as a command
// tree.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"outlay/internal/api"
	"outlay/internal/config"
	"outlay/internal/dashboard"
	"outlay/internal/log"
	"outlay/internal/session"
	"outlay/internal/storage"
	"outlay/internal/views"
)

// App holds the wired client components for the lifetime of one
// command invocation.
type App struct {
	cfg      *config.Config
	logger   *log.Logger
	store    *storage.SQLiteStore
	api      *api.Client
	session  *session.Manager
	dash     *dashboard.Dashboard
	pipeline *views.Pipeline
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// newApp loads config, opens the state database, restores the session,
// and wires the 401 policy: any unauthorized response clears the
// session and the command fails with a login hint.
func newApp(verbose bool) (*App, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger.WithComponent(log.ComponentAPI))
	sess := session.NewManager(store, client, logger.WithComponent(log.ComponentSession))
	client.OnUnauthorized(sess.HandleUnauthorized)
	sess.OnExpired(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run `outlay login` to sign in again.")
	})
	sess.Initialize()

	pipeline, err := views.NewPipeline(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("build view pipeline: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		api:      client,
		session:  sess,
		dash:     dashboard.New(client, logger.WithComponent(log.ComponentDashboard)),
		pipeline: pipeline,
	}, nil
}

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close state store", log.FieldError, err)
		}
	}
}

// requireAuth guards commands that need a live session.
func (a *App) requireAuth() error {
	if !a.session.Authenticated() {
		return errors.New("not logged in (run `outlay login`)")
	}
	return nil
}
