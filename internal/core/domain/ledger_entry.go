package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a recorded transaction.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
	EntryEquity  EntryType = "equity"
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryIncome, EntryExpense, EntryEquity:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of a ledger entry. It is always derived
// from the numeric settlement fields and never assigned by callers.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// LedgerEntry is a recorded income, expense or equity transaction together with
// its settlement state.
type LedgerEntry struct {
	ID            string    `json:"id"`            // Internal record id (UUID)
	TransactionID string    `json:"transactionId"` // Stable external reference, opaque
	Type          EntryType `json:"type"`
	Category      string    `json:"category"`    // Caller text, resolved with ParseCategory
	SubCategory   string    `json:"subCategory"` // Optional
	ClientName    string    `json:"clientName"`  // Customer or supplier
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`

	Amount decimal.Decimal `json:"amount"` // Immutable once created

	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	WriteoffAmount   decimal.Decimal `json:"writeoffAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"` // May be negative on overpayment
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	IsARAPEntry      bool            `json:"isARAPEntry"` // Settlement tracking applies

	// Version is incremented on every settlement write; the record store rejects a
	// write whose version does not match the one that was read.
	Version int64 `json:"version"`
	AuditFields
}

// Settlement returns the four numeric fields the balance state is derived from.
func (e LedgerEntry) Settlement() Settlement {
	return Settlement{
		Amount:         e.Amount,
		TotalPaid:      e.TotalPaid,
		TotalDiscount:  e.TotalDiscount,
		WriteoffAmount: e.WriteoffAmount,
	}
}

// Settlement groups the inputs of the ledger balance state.
type Settlement struct {
	Amount         decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalDiscount  decimal.Decimal
	WriteoffAmount decimal.Decimal
}
