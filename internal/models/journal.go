package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of journal_entries. Lines are loaded separately.
type JournalEntry struct {
	JournalID   string    `db:"journal_id"`
	EntryNumber string    `db:"entry_number"` // Unique
	JournalDate time.Time `db:"journal_date"`
	Description string    `db:"description"`
	SourceType  string    `db:"source_type"`
	SourceID    string    `db:"source_id"`
	AuditFields
}

// JournalLine is a row of journal_lines; exactly one of Debit and Credit is non-zero.
type JournalLine struct {
	JournalID            string          `db:"journal_id"`
	LineNo               int             `db:"line_no"`
	AccountCode          string          `db:"account_code"`
	AccountNameLocalized string          `db:"account_name_localized"`
	Debit                decimal.Decimal `db:"debit"`
	Credit               decimal.Decimal `db:"credit"`
}
