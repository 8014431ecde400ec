package repository

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		nonRetryable bool
	}{
		{
			name:         "foreign key violation",
			err:          &pgconn.PgError{Code: "23503"},
			nonRetryable: true,
		},
		{
			name:         "check violation",
			err:          &pgconn.PgError{Code: "23514"},
			nonRetryable: true,
		},
		{
			name:         "not null violation",
			err:          &pgconn.PgError{Code: "23502"},
			nonRetryable: true,
		},
		{
			name:         "invalid datetime format",
			err:          fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "22007"}),
			nonRetryable: true,
		},
		{
			name:         "serialization failure",
			err:          &pgconn.PgError{Code: "40001"},
			nonRetryable: false,
		},
		{
			name:         "plain error",
			err:          errors.New("connection reset"),
			nonRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyPgError(tt.err)

			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.nonRetryable, errors.Is(got, domain.ErrNonRetryable))
		})
	}

	assert.NoError(t, classifyPgError(nil))
}
