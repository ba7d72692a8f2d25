package main

import (
	"fmt"
	"os"

	"github.com/Zachkp/folio/internal/store"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete theme preferences older than the retention window",
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

		n, err := prune(cmd.Context(), db, cfg.PreferenceRetention, log)
		if err != nil {
			return err
		}
		left, err := db.CountVisitors(cmd.Context())
		if err != nil {
			return fmt.Errorf("counting visitors: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d preference rows, %d visitors remain\n", n, left)
		return nil
	},
}
