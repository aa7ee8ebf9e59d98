package lendingrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("update book: %w", &pgconn.PgError{Code: code})
	}

	require.True(t, isTransient(wrap(pgerrcode.SerializationFailure)))
	require.True(t, isTransient(wrap(pgerrcode.DeadlockDetected)))
	require.False(t, isTransient(wrap(pgerrcode.UniqueViolation)))
	require.False(t, isTransient(errors.New("connection reset")))
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.CheckViolation}))
}

func TestNotFound(t *testing.T) {
	require.ErrorIs(t, notFound(pgx.ErrNoRows, "book", 7), ErrNotFound)

	other := errors.New("boom")
	require.Equal(t, other, notFound(other, "book", 7))
}
