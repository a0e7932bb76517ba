package pgsql

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"serialization failure", pgSerializationFailure, apperrors.ErrConflict},
		{"deadlock", pgDeadlockDetected, apperrors.ErrConflict},
		{"entry deleted underneath", pgForeignKeyViolation, apperrors.ErrConflict},
		{"unique violation", pgUniqueViolation, apperrors.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: tt.code}))
			assert.ErrorIs(t, err, tt.want)

			var pgErr *pgconn.PgError
			assert.ErrorAs(t, err, &pgErr, "the driver error stays reachable")
		})
	}

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
	assert.False(t, apperrors.IsRetryable(translateError(&pgconn.PgError{Code: "22001"})))
}

func TestKeysetFilter(t *testing.T) {
	query, args, err := keysetFilter("SELECT 1 WHERE a = $1", []any{"acme"}, "d", "id", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 WHERE a = $1", query)
	assert.Len(t, args, 1)

	cursor := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	token := pagination.EncodeToken(cursor, "x-1")
	query, args, err = keysetFilter("SELECT 1 WHERE a = $1", []any{"acme"}, "d", "id", &token)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND (d, id) < ($2, $3)", query)
	require.Len(t, args, 3)
	assert.True(t, cursor.Equal(args[1].(time.Time)))
	assert.Equal(t, "x-1", args[2])

	query, args = withLimit(query, args, "d", "id", 10)
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND (d, id) < ($2, $3) ORDER BY d DESC, id DESC LIMIT $4", query)
	assert.Equal(t, 11, args[3])

	bad := "not-a-token"
	_, _, err = keysetFilter("q", nil, "d", "id", &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTrimPage(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	key := func(d int) (time.Time, string) { return day(d), fmt.Sprint(d) }

	items, token := trimPage([]int{5, 4, 3}, 2, key)
	assert.Equal(t, []int{5, 4}, items)
	require.NotNil(t, token)
	d, id, err := pagination.DecodeToken(*token)
	require.NoError(t, err)
	assert.Equal(t, day(4), d)
	assert.Equal(t, "4", id)

	items, token = trimPage([]int{2, 1}, 2, key)
	assert.Len(t, items, 2)
	assert.Nil(t, token)
}
