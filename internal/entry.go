// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/inkwell/internal/api"
	"github.com/starford/inkwell/internal/device"
	"github.com/starford/inkwell/internal/events"
	"github.com/starford/inkwell/internal/importer"
	"github.com/starford/inkwell/internal/journal"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/notefile"
	"github.com/starford/inkwell/internal/textclean"
	"github.com/starford/inkwell/internal/vault"
	"github.com/starford/inkwell/internal/watcher"
)

// components bundles everything the daemon and the MCP mode share.
type components struct {
	cfg    *Config
	logger *slog.Logger
	db     *journal.DB
	imp    *importer.Importer
}

func (c *components) close() {
	_ = c.db.Close()
}

// buildComponents initializes logging, storage, the journal, and the import
// pipeline from configuration. publish may be nil.
func buildComponents(app *application, publish importer.Publisher) (*components, error) {
	cfg := app.config

	logOut := app.logOutput
	if logOut == nil {
		logOut = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("daily_notes_dir", cfg.Vault.DailyNotesDir),
		slog.String("device_export_root", cfg.Device.ExportRoot),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}

	dev, err := device.NewFS(cfg.Device.ExportRoot)
	if err != nil {
		return nil, fmt.Errorf("init device root: %w", err)
	}

	db, err := journal.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	open := app.opener
	if open == nil && len(cfg.Importer.OpenCommand) > 0 {
		open = execOpener(cfg.Importer.OpenCommand)
	}

	imp := importer.New(store, dev, notefile.NewDecoder(), importer.Options{
		DailyNotesDir: cfg.Vault.DailyNotesDir,
		LinkToken:     cfg.Importer.LinkToken,
		TextToken:     cfg.Importer.TextToken,
		Transform:     textclean.New(cfg.Importer.Cleanup),
		Journal:       db,
		Publish:       publish,
		Open:          open,
		Logger:        logger,
	})

	return &components{cfg: cfg, logger: logger, db: db, imp: imp}, nil
}

// Run starts the daemon with the given options: the vault watcher plus the
// HTTP status API.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	broker := events.NewBroker()
	defer broker.Close()

	c, err := buildComponents(app, func(kind string, o *models.Outcome) {
		broker.Publish(events.Event{Type: "import." + kind, Data: o})
	})
	if err != nil {
		return err
	}
	defer c.close()

	cfg := c.cfg
	logger := c.logger

	// Build API service and router.
	svc := api.NewService(c.db, c.imp)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the vault watcher feeding the import pipeline.
	g.Go(func() error {
		return watcher.Watch(gCtx, cfg.Vault.Path, logger, c.imp.HandleCreate)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// execOpener builds a best-effort Opener that runs cmdline with the imported
// file's absolute path appended.
func execOpener(cmdline []string) importer.Opener {
	return func(ctx context.Context, absPath string) error {
		args := append(append([]string{}, cmdline[1:]...), absPath)
		return exec.CommandContext(ctx, cmdline[0], args...).Run()
	}
}
