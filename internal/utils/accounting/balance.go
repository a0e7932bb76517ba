package accounting

import (
	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// RemainingBalance is amount - totalPaid - totalDiscount - writeoff, rounded.
// It is negative on overpayment and is never clamped.
func RemainingBalance(s domain.Settlement) decimal.Decimal {
	return currency.Round(s.Amount.Sub(s.TotalPaid).Sub(s.TotalDiscount).Sub(s.WriteoffAmount))
}

// PaymentStatus derives the settlement status from the four numeric fields.
func PaymentStatus(s domain.Settlement) domain.PaymentStatus {
	effectiveOwed := currency.Sub(currency.Sub(s.Amount, s.TotalDiscount), s.WriteoffAmount)
	switch {
	case currency.GreaterOrEqual(s.TotalPaid, effectiveOwed):
		return domain.StatusPaid
	case currency.IsPositive(s.TotalPaid):
		return domain.StatusPartial
	default:
		return domain.StatusUnpaid
	}
}

// Recompute refreshes the derived fields of entry. It is the only place
// RemainingBalance and PaymentStatus are assigned.
func Recompute(entry *domain.LedgerEntry) {
	s := entry.Settlement()
	entry.RemainingBalance = RemainingBalance(s)
	entry.PaymentStatus = PaymentStatus(s)
}

// InitializeSettlement sets the settlement fields of a freshly recorded entry.
// Untracked entries are settled at recording time.
func InitializeSettlement(entry *domain.LedgerEntry) {
	entry.Amount = currency.Round(entry.Amount)
	entry.TotalDiscount = decimal.Zero
	entry.WriteoffAmount = decimal.Zero
	entry.TotalPaid = decimal.Zero
	if !entry.IsARAPEntry {
		entry.TotalPaid = entry.Amount
	}
	Recompute(entry)
}

// ApplyPayment adds amount to totalPaid and recomputes.
func ApplyPayment(entry *domain.LedgerEntry, amount decimal.Decimal) {
	entry.TotalPaid = currency.Add(entry.TotalPaid, amount)
	Recompute(entry)
}

// ReversePayment subtracts amount from totalPaid. A result below zero is
// clamped and reported as a *apperrors.DataIntegrityError; the entry is still
// left consistent so the caller can decide whether to persist it.
func ReversePayment(entry *domain.LedgerEntry, amount decimal.Decimal) error {
	var err error
	entry.TotalPaid, err = subtractFloored(entry.ID, "totalPaid", entry.TotalPaid, amount)
	Recompute(entry)
	return err
}

// ApplyDiscount adds a settlement discount and recomputes.
func ApplyDiscount(entry *domain.LedgerEntry, amount decimal.Decimal) {
	entry.TotalDiscount = currency.Add(entry.TotalDiscount, amount)
	Recompute(entry)
}

// ReverseDiscount removes a settlement discount, flooring at zero.
func ReverseDiscount(entry *domain.LedgerEntry, amount decimal.Decimal) error {
	var err error
	entry.TotalDiscount, err = subtractFloored(entry.ID, "totalDiscount", entry.TotalDiscount, amount)
	Recompute(entry)
	return err
}

// ApplyWriteoff adds a bad-debt write-off and recomputes.
func ApplyWriteoff(entry *domain.LedgerEntry, amount decimal.Decimal) {
	entry.WriteoffAmount = currency.Add(entry.WriteoffAmount, amount)
	Recompute(entry)
}

// ReverseWriteoff removes a write-off, flooring at zero.
func ReverseWriteoff(entry *domain.LedgerEntry, amount decimal.Decimal) error {
	var err error
	entry.WriteoffAmount, err = subtractFloored(entry.ID, "writeoffAmount", entry.WriteoffAmount, amount)
	Recompute(entry)
	return err
}

// subtractFloored returns round(current - amount) floored at zero. Rounding
// noise below the tolerance is absorbed; anything larger is an integrity error.
func subtractFloored(recordID, field string, current, amount decimal.Decimal) (decimal.Decimal, error) {
	result := currency.Sub(current, amount)
	if !result.IsNegative() {
		return result, nil
	}
	if currency.IsZero(result) {
		return decimal.Zero, nil
	}
	return decimal.Zero, &apperrors.DataIntegrityError{
		RecordID: recordID,
		Field:    field,
		Value:    currency.Format(result),
	}
}
