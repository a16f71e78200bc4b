package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/unitflow/unitflow/internal/shared"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError converts driver errors into shared domain sentinels. entity names
// the record kind for messages.
func MapError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s already exists (%s)", shared.ErrDuplicate, entity, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s references a missing record (%s)", shared.ErrValidation, entity, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s violates %s", shared.ErrValidation, entity, pgErr.ConstraintName)
		}
	}
	return err
}
