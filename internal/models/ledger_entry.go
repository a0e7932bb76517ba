package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of ledger_entries.
type LedgerEntry struct {
	ID               string          `db:"id"`
	TransactionID    string          `db:"transaction_id"`
	EntryType        string          `db:"entry_type"`
	Category         string          `db:"category"`
	SubCategory      string          `db:"sub_category"`
	ClientName       string          `db:"client_name"`
	Description      string          `db:"description"`
	EntryDate        time.Time       `db:"entry_date"`
	Amount           decimal.Decimal `db:"amount"`
	TotalPaid        decimal.Decimal `db:"total_paid"`
	TotalDiscount    decimal.Decimal `db:"total_discount"`
	WriteoffAmount   decimal.Decimal `db:"writeoff_amount"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	PaymentStatus    string          `db:"payment_status"`
	IsARAPEntry      bool            `db:"is_arap_entry"`
	Version          int64           `db:"version"`
	AuditFields
}
