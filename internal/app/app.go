// Package app assembles the daemon: configuration, controller, and HTTP
// server, plus the initial refresh.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lilachbitton/newcalander/internal/calendar"
	"github.com/lilachbitton/newcalander/internal/config"
	"github.com/lilachbitton/newcalander/internal/controller"
	"github.com/lilachbitton/newcalander/internal/origami"
	"github.com/lilachbitton/newcalander/internal/state"
	"github.com/lilachbitton/newcalander/internal/web"
)

const shutdownGrace = 5 * time.Second

// Run builds everything and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Runtime, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	connection := resolveConnection(cfg, logger)

	client := origami.NewClient(cfg.Timeout, cfg.PageLimit, logger)
	ctrl := controller.New(client.FetchSlots, connection, controller.Options{
		InitialView:  cfg.DefaultView,
		DemoFallback: cfg.DemoFallback,
		SavePath:     cfg.SavedConfigFile,
		Logger:       logger,
	})

	if ctrl.Configured() {
		snap := ctrl.Refresh(ctx)
		logger.Info("initial refresh", "phase", snap.Phase, "events", len(snap.Events))
	} else {
		logger.Warn("connection not configured; waiting for settings",
			"hint", "POST /api/config or set ORIGAMI_BASE_URL / ORIGAMI_COLLECTION_ID / ORIGAMI_API_KEY")
	}

	srv := web.New(cfg, ctrl, logger)
	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", "http://"+cfg.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// resolveConnection merges environment-provided settings with ones saved
// through the settings API; saved values win only where the environment
// leaves a field empty.
func resolveConnection(cfg config.Runtime, logger *slog.Logger) calendar.Config {
	connection := cfg.Connection()

	saved, ok, err := state.LoadConnection(cfg.SavedConfigFile)
	if err != nil {
		logger.Warn("ignoring unreadable saved settings", "path", cfg.SavedConfigFile, "err", err)
		return connection
	}
	if !ok {
		return connection
	}

	if connection.BaseURL == "" {
		connection.BaseURL = saved.BaseURL
	}
	if connection.CollectionID == "" {
		connection.CollectionID = saved.CollectionID
	}
	if connection.APIKey == "" {
		connection.APIKey = saved.APIKey
	}
	return connection
}
