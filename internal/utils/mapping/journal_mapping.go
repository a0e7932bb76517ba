package mapping

import (
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/models"
)

// ToModelJournal converts a domain JournalEntry to its header row and line rows.
func ToModelJournal(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			JournalID:            d.JournalID,
			LineNo:               i + 1,
			AccountCode:          l.AccountCode,
			AccountNameLocalized: l.AccountNameLocalized,
			Debit:                l.Debit,
			Credit:               l.Credit,
		}
	}
	return models.JournalEntry{
		JournalID:   d.JournalID,
		EntryNumber: d.EntryNumber,
		JournalDate: d.Date,
		Description: d.Description,
		SourceType:  string(d.SourceType),
		SourceID:    d.SourceID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, lines
}

// ToDomainJournal converts a header row and its lines, ordered by line number.
func ToDomainJournal(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		JournalID:   m.JournalID,
		EntryNumber: m.EntryNumber,
		Date:        m.JournalDate,
		Description: m.Description,
		SourceType:  domain.JournalSourceType(m.SourceType),
		SourceID:    m.SourceID,
		Lines:       make([]domain.JournalLine, len(lines)),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			AccountCode:          l.AccountCode,
			AccountNameLocalized: l.AccountNameLocalized,
			Debit:                l.Debit,
			Credit:               l.Credit,
		}
	}
	return d
}
