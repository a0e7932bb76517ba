package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs each unit of work in a REPEATABLE READ transaction. Entry
// updates are guarded by their version column, and a concurrent change to a
// row this transaction touches aborts it with a serialization failure; both
// surface as apperrors.ErrConflict.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// RunAtomic runs fn in a transaction and commits only if fn succeeds.
func (u *PgxUnitOfWork) RunAtomic(ctx context.Context, fn func(ctx context.Context, tx portsrepo.AtomicTx) error) error {
	tx, err := u.Begin(ctx, pgx.RepeatableRead)
	if err != nil {
		return err
	}
	// Will be ignored if the transaction is committed successfully
	defer u.Rollback(ctx, tx)

	if err := fn(ctx, &pgxAtomicTx{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// pgxAtomicTx is the AtomicTx view of one pgx.Tx.
type pgxAtomicTx struct {
	tx    pgx.Tx
	wrote bool
}

var _ portsrepo.AtomicTx = (*pgxAtomicTx)(nil)

func (t *pgxAtomicTx) beforeRead() error {
	if t.wrote {
		return fmt.Errorf("%w: %w", apperrors.ErrInternal, portsrepo.ErrReadAfterWrite)
	}
	return nil
}

// GetLedgerEntries returns the entries in the order of ids.
func (t *pgxAtomicTx) GetLedgerEntries(ctx context.Context, ids []string) ([]domain.LedgerEntry, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	byID, err := findLedgerEntriesByIDs(ctx, t.tx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LedgerEntry, len(ids))
	for i, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("ledger entry %s: %w", id, apperrors.ErrNotFound)
		}
		out[i] = e
	}
	return out, nil
}

// GetPayment fails with apperrors.ErrNotFound when the payment does not exist.
func (t *pgxAtomicTx) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	return findPayment(ctx, t.tx, paymentID)
}

// GetAllocations returns the allocations of a payment, possibly none.
func (t *pgxAtomicTx) GetAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	return findAllocations(ctx, t.tx, paymentID)
}

func (t *pgxAtomicTx) CreateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	return insertLedgerEntry(ctx, t.tx, entry)
}

func (t *pgxAtomicTx) UpdateLedgerSettlement(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	return updateLedgerSettlement(ctx, t.tx, entry)
}

func (t *pgxAtomicTx) DeleteLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	return deleteLedgerEntry(ctx, t.tx, entry)
}

func (t *pgxAtomicTx) SavePayment(ctx context.Context, payment domain.Payment) error {
	t.wrote = true
	return insertPayment(ctx, t.tx, payment)
}

func (t *pgxAtomicTx) SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error {
	t.wrote = true
	return insertAllocations(ctx, t.tx, allocations)
}

func (t *pgxAtomicTx) DeletePayment(ctx context.Context, paymentID string) error {
	t.wrote = true
	return deletePayment(ctx, t.tx, paymentID)
}

func (t *pgxAtomicTx) SaveJournal(ctx context.Context, journal domain.JournalEntry) error {
	t.wrote = true
	return insertJournal(ctx, t.tx, journal)
}

func (t *pgxAtomicTx) DeleteJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) error {
	t.wrote = true
	return deleteJournalsBySource(ctx, t.tx, sourceType, sourceID)
}
