package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
)

// journalPosting describes the journal to write for one business event.
type journalPosting struct {
	Mapping     domain.AccountMapping
	Amount      decimal.Decimal
	Description string
	Date        *time.Time
	SourceType  domain.JournalSourceType
	SourceID    string
	UserID      string
}

// buildJournal validates the posting and assembles the journal entry with a new
// id and entry number. Call it inside the unit of work so a retry gets a fresh
// entry number.
func buildJournal(p journalPosting, now time.Time) (*domain.JournalEntry, error) {
	in := accounting.JournalInput{
		UserID:      p.UserID,
		Description: p.Description,
		Amount:      p.Amount,
		Date:        p.Date,
	}
	journal, err := accounting.BuildJournalEntry(in, p.Mapping, p.SourceType, p.SourceID, now)
	if err != nil {
		return nil, err
	}
	journal.JournalID = uuid.NewString()
	return journal, nil
}

// saveJournal persists a journal inside tx. A taken entry number is reported as
// a conflict so the whole unit of work is retried with a new number.
func saveJournal(ctx context.Context, tx portsrepo.JournalTxWriter, journal *domain.JournalEntry) error {
	if err := tx.SaveJournal(ctx, *journal); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: entry number %s already taken", apperrors.ErrConflict, journal.EntryNumber)
		}
		return fmt.Errorf("failed to save journal %s: %w", journal.EntryNumber, err)
	}
	return nil
}

// postJournal builds and saves a journal in one step.
func (s *BaseService) postJournal(ctx context.Context, tx portsrepo.JournalTxWriter, p journalPosting) (*domain.JournalEntry, error) {
	journal, err := buildJournal(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := saveJournal(ctx, tx, journal); err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Journal posted",
		slog.String("journal_id", journal.JournalID),
		slog.String("entry_number", journal.EntryNumber),
		slog.String("source_type", string(p.SourceType)),
		slog.String("source_id", p.SourceID),
		slog.String("debit_account", p.Mapping.DebitAccount),
		slog.String("credit_account", p.Mapping.CreditAccount))
	return journal, nil
}
