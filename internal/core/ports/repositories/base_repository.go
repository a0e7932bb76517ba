package repositories

import (
	"context"
	"errors"
)

// ErrReadAfterWrite is returned when a unit of work reads after it has written.
var ErrReadAfterWrite = errors.New("read issued after a write in the same unit of work")

// AtomicTx is the record store as seen from inside one unit of work.
//
// Every read must be issued before the first write; a read after a write is
// rejected. The store validates at commit that nothing read has changed since
// and fails with apperrors.ErrConflict otherwise.
type AtomicTx interface {
	LedgerEntryTxReader
	PaymentTxReader

	LedgerEntryTxWriter
	PaymentTxWriter
	JournalTxWriter
}

// UnitOfWork runs fn as a single all-or-nothing commit. If fn returns an error
// nothing it wrote is persisted. A lost optimistic check surfaces as
// apperrors.ErrConflict and may be retried with fresh reads.
type UnitOfWork interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context, tx AtomicTx) error) error
}
