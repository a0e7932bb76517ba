package services

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/dto"
)

// LedgerEntryReaderSvc defines read operations for ledger entries
type LedgerEntryReaderSvc interface {
	// GetLedgerEntry retrieves an entry by its record id.
	GetLedgerEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)

	// GetEntryJournals retrieves every journal posted for an entry, including its discounts and write-offs.
	GetEntryJournals(ctx context.Context, id string) ([]domain.JournalEntry, error)

	// ListEntries retrieves a page of a client's entries, newest first.
	ListEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// ListOpenEntries lists a client's tracked entries that still carry a balance, oldest first.
	ListOpenEntries(ctx context.Context, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error)
}

// LedgerEntryWriterSvc defines write operations for ledger entries
type LedgerEntryWriterSvc interface {
	// RecordEntry validates, maps and persists an entry together with its journal.
	RecordEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, userID string) (*domain.LedgerEntry, *domain.JournalEntry, error)

	// ApplyDiscount grants a settlement discount on an open entry.
	ApplyDiscount(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string) (*domain.LedgerEntry, error)

	// ApplyWriteoff writes off part or all of an open entry as uncollectible.
	ApplyWriteoff(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string) (*domain.LedgerEntry, error)

	// DeleteEntry removes an entry that has no payments, with its journals.
	DeleteEntry(ctx context.Context, id string, userID string) error
}

// LedgerEntrySvcFacade combines all ledger entry service interfaces
type LedgerEntrySvcFacade interface {
	LedgerEntryReaderSvc
	LedgerEntryWriterSvc
}
