package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/raca159/simple-label-maker/internal/blob"
	"github.com/raca159/simple-label-maker/internal/config"
	"github.com/raca159/simple-label-maker/internal/label"
	"github.com/raca159/simple-label-maker/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve context is cancelled.
const shutdownTimeout = 10 * time.Second

// App is the application layer between the CLI and the annotation store.
// It constructs all dependencies from config and manages their lifecycle.
// The caller must call Close when done.
type App struct {
	cfg     *config.Config
	store   *label.Store
	api     *server.Server
	logFile *os.File
	logger  label.Logger
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Serve", "Stats").
func NewApp(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	slogger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	client, err := blob.NewClientFromConfig(ctx, cfg.Storage)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	project, err := config.LoadProject(cfg.ProjectPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("loading project: %w", err)
	}

	store := label.NewStore(client, logger, label.RealClock{}, label.UUIDGenerator{})
	if err := store.Initialize(project); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	return &App{
		cfg:     cfg,
		store:   store,
		api:     server.New(store, logger),
		logFile: logFile,
		logger:  logger,
	}, nil
}

// Serve runs the HTTP API until the context is cancelled, then shuts down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: a.api.Router(os.Stdout),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		a.logger.Info("http server stopped")
		return nil
	}
}

// Stats returns the project-wide annotation statistics.
func (a *App) Stats(ctx context.Context) (*label.ProjectStats, error) {
	return a.store.ProjectStats(ctx)
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
