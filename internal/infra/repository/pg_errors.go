package repository

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgDataExceptionClass  = "22"
)

// classifyPgError marks constraint and data errors as non-retryable; the same row will be
// rejected again on every replay.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgForeignKeyViolation,
		pgErr.Code == pgCheckViolation,
		pgErr.Code == pgNotNullViolation,
		len(pgErr.Code) == 5 && pgErr.Code[:2] == pgDataExceptionClass:
		return errors.Mark(err, domain.ErrNonRetryable)
	default:
		return err
	}
}
