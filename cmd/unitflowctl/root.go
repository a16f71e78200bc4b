package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/unitflow/unitflow/internal/app"
)

var (
	cfg    *app.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "unitflowctl",
	Short:        "Operational commands for the UnitFlow back end",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := app.LoadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		logger = app.NewLogger(cfg)
		return nil
	},
}
