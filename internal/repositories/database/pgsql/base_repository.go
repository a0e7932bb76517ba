package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes the repositories translate into application errors.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so query helpers can
// run inside or outside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction at the given isolation level
func (r *BaseRepository) Begin(ctx context.Context, isoLevel pgx.TxIsoLevel) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return translateError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// translateError maps PostgreSQL errors onto the application sentinels. A lost
// serialization race becomes apperrors.ErrConflict so callers can retry.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", apperrors.ErrDuplicate, err)
	}
	return err
}

// keysetFilter appends the newest-first cursor condition for nextToken, if any.
// dateCol and idCol name the ordering columns.
func keysetFilter(query string, args []any, dateCol, idCol string, nextToken *string) (string, []any, error) {
	if nextToken == nil || *nextToken == "" {
		return query, args, nil
	}
	cursorDate, cursorID, err := pagination.DecodeToken(*nextToken)
	if err != nil {
		return "", nil, err
	}
	query += fmt.Sprintf(" AND (%s, %s) < ($%d, $%d)", dateCol, idCol, len(args)+1, len(args)+2)
	return query, append(args, cursorDate, cursorID), nil
}

// withLimit appends ORDER BY and a LIMIT one past limit, so trimPage can tell
// whether another page exists. limit <= 0 means no limit.
func withLimit(query string, args []any, dateCol, idCol string, limit int) (string, []any) {
	query += fmt.Sprintf(" ORDER BY %s DESC, %s DESC", dateCol, idCol)
	if limit <= 0 {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	return query, append(args, limit+1)
}

// trimPage cuts items to limit and returns the token for the following page.
func trimPage[T any](items []T, limit int, key func(T) (time.Time, string)) ([]T, *string) {
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	items = items[:limit]
	d, id := key(items[limit-1])
	token := pagination.EncodeToken(d, id)
	return items, &token
}
