package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unitflow/unitflow/internal/platform/migrations"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *migrations.Runner) error {
			if err := r.Up(); err != nil {
				return err
			}
			return printVersion(cmd, r)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDownSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		return withRunner(func(r *migrations.Runner) error {
			if err := r.Down(migrateDownSteps); err != nil {
				return err
			}
			return printVersion(cmd, r)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *migrations.Runner) error {
			return printVersion(cmd, r)
		})
	},
}

func withRunner(fn func(*migrations.Runner) error) error {
	runner, err := migrations.NewRunner(cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()
	return fn(runner)
}

func printVersion(cmd *cobra.Command, r *migrations.Runner) error {
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	cmd.Printf("schema version %d (%s)\n", version, state)
	return nil
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
