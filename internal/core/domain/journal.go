package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalSourceType identifies the kind of record a journal entry was posted for.
// Journals are deleted together with their source record.
type JournalSourceType string

const (
	SourceLedgerEntry JournalSourceType = "ledger_entry"
	SourcePayment     JournalSourceType = "payment"
	SourceDiscount    JournalSourceType = "discount"
	SourceWriteoff    JournalSourceType = "writeoff"
)

// JournalEntry is the double-entry artifact for one business event.
type JournalEntry struct {
	JournalID   string            `json:"journalId"`   // Primary Key (UUID)
	EntryNumber string            `json:"entryNumber"` // JE-YYYYMMDD-HHMMSS-RRR
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	SourceType  JournalSourceType `json:"sourceType"`
	SourceID    string            `json:"sourceId"`
	Lines       []JournalLine     `json:"lines"` // Exactly two for every mapping
	AuditFields
}

// JournalLine is a single posting. Exactly one of Debit or Credit is non-zero.
type JournalLine struct {
	AccountCode          string          `json:"accountCode"`
	AccountNameLocalized string          `json:"accountNameLocalized"`
	Debit                decimal.Decimal `json:"debit"`
	Credit               decimal.Decimal `json:"credit"`
}

// TotalDebits sums the debit side.
func (j JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range j.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side.
func (j JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range j.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits exactly.
func (j JournalEntry) IsBalanced() bool {
	return j.TotalDebits().Equal(j.TotalCredits())
}

// IsDebit reports whether the line posts to the debit side.
func (l JournalLine) IsDebit() bool {
	return !l.Debit.IsZero()
}
