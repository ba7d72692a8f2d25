package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/Zachkp/folio/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(os.Stderr)
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Debug("preference store open", "path", db.Path())

		srv, err := web.NewServer(cfg, func(visitorID string) theme.Storage {
			return db.Preferences(visitorID)
		}, log)
		if err != nil {
			return fmt.Errorf("building server: %w", err)
		}
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go prune(ctx, db, cfg.PreferenceRetention, log)

		<-ctx.Done()
		log.Info("shutting down")
		return srv.Stop()
	},
}

// prune drops preferences older than retention. A zero retention keeps
// everything.
func prune(ctx context.Context, db *store.DB, retention time.Duration, log *slog.Logger) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := db.CleanupStale(ctx, retention)
	if err != nil {
		log.Warn("preference cleanup failed", "error", err)
		return 0, err
	}
	if n > 0 {
		log.Info("removed stale preferences", "rows", n, "retention", retention)
	}
	return n, nil
}
