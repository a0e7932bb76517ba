package repositories

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
)

// LedgerEntryReader defines read operations for ledger entries outside a unit of work.
type LedgerEntryReader interface {
	// FindLedgerEntryByID retrieves a ledger entry by its internal record id.
	FindLedgerEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error)

	// FindLedgerEntriesByIDs retrieves several entries at once. Missing ids are
	// skipped; callers compare lengths when they need all of them.
	FindLedgerEntriesByIDs(ctx context.Context, ids []string) ([]domain.LedgerEntry, error)

	// ListOpenLedgerEntries returns the tracked entries of a client and type that
	// still have a remaining balance, oldest first.
	ListOpenLedgerEntries(ctx context.Context, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error)

	// ListLedgerEntriesByClient retrieves a page of a client's entries, newest first.
	ListLedgerEntriesByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerEntryTxReader reads ledger entries as part of a unit of work's read set.
type LedgerEntryTxReader interface {
	// GetLedgerEntries returns the entries in the order of ids. If any id is
	// missing it fails with apperrors.ErrNotFound.
	GetLedgerEntries(ctx context.Context, ids []string) ([]domain.LedgerEntry, error)
}

// LedgerEntryTxWriter writes ledger entries inside a unit of work.
type LedgerEntryTxWriter interface {
	// CreateLedgerEntry inserts a new entry.
	CreateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateLedgerSettlement writes the settlement fields of entry. entry.Version
	// must be the version that was read; the stored version is incremented.
	UpdateLedgerSettlement(ctx context.Context, entry domain.LedgerEntry) error

	// DeleteLedgerEntry removes an entry read in the same unit of work.
	DeleteLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerEntryRepositoryFacade combines the ledger entry read operations.
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
}
