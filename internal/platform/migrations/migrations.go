// Package migrations embeds the schema and applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies embedded migrations against a PostgreSQL DSN.
type Runner struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// NewRunner opens the embedded source and the database driver.
func NewRunner(dsn string, logger *slog.Logger) (*Runner, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: open source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, DriverURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migrations: open database: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{m: m, logger: logger}, nil
}

// DriverURL rewrites a postgres DSN to the scheme the pgx/v5 driver registers.
func DriverURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// Up applies all pending migrations.
func (r *Runner) Up() error {
	err := r.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		r.logger.Info("schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	r.logger.Info("schema migrated")
	return nil
}

// Down rolls back the given number of steps.
func (r *Runner) Down(steps int) error {
	if steps <= 0 {
		return errors.New("migrations: steps must be positive")
	}
	if err := r.m.Steps(-steps); err != nil {
		return fmt.Errorf("migrations: down: %w", err)
	}
	r.logger.Info("schema rolled back", slog.Int("steps", steps))
	return nil
}

// Version reports the current schema version.
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the source and database handles.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}
