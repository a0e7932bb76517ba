package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalByID retrieves a journal entry and its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindJournalsBySource retrieves the journal entries posted for a source record.
	FindJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) ([]domain.JournalEntry, error)

	// ListJournalEntries retrieves every journal entry dated on or before asOf, with lines.
	ListJournalEntries(ctx context.Context, asOf time.Time) ([]domain.JournalEntry, error)
}

// JournalTxWriter writes journal entries inside a unit of work. Journals are
// never updated; they are deleted with their source record.
type JournalTxWriter interface {
	// SaveJournal inserts a journal entry with its lines. An entry number that is
	// already taken fails with apperrors.ErrDuplicate.
	SaveJournal(ctx context.Context, journal domain.JournalEntry) error

	// DeleteJournalsBySource removes every journal entry posted for a source record.
	DeleteJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) error
}

// JournalRepositoryFacade combines the journal read operations.
type JournalRepositoryFacade interface {
	JournalReader
}
