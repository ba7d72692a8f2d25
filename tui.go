package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/Zachkp/folio/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the portfolio in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		var w io.Writer = io.Discard
		if tuiLogFile != "" {
			f, err := tea.LogToFile(tuiLogFile, "folio")
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			w = f
		}

		cfg, log, err := setup(w)
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		prefs := theme.Load(cmd.Context(), db.Preferences(store.LocalVisitor), cfg.DefaultDark)
		m := tui.New(tui.Options{
			Scroll:          cfg.TUIScrollConfig(),
			RevealThreshold: cfg.RevealThreshold,
			Timing:          cfg.Timing(),
			Theme:           prefs,
			Log:             log,
		})
		defer m.Close()

		p := tea.NewProgram(m,
			tea.WithContext(cmd.Context()),
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
			tea.WithReportFocus(),
		)
		if _, err := p.Run(); err != nil {
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return fmt.Errorf("the terminal viewer needs a real terminal")
			}
			return fmt.Errorf("running terminal viewer: %w", err)
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the viewer runs")
}
