package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// FIFOResult is the outcome of distributing a payment over open entries.
type FIFOResult struct {
	// Allocations has one element per open entry, oldest first, including
	// entries that received nothing.
	Allocations    []domain.PaymentAllocation
	TotalAllocated decimal.Decimal
	// RemainingPayment above zero is an overpayment the caller must keep.
	RemainingPayment decimal.Decimal
}

// DistributeFIFO assigns paymentAmount to the oldest debts first. The input
// slice is not modified.
func DistributeFIFO(paymentAmount decimal.Decimal, openEntries []domain.LedgerEntry) FIFOResult {
	sorted := make([]domain.LedgerEntry, len(openEntries))
	copy(sorted, openEntries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].TransactionID < sorted[j].TransactionID
	})

	remaining := currency.Round(paymentAmount)
	total := decimal.Zero
	allocations := make([]domain.PaymentAllocation, 0, len(sorted))

	for _, entry := range sorted {
		allocated := decimal.Zero
		if remaining.IsPositive() && entry.RemainingBalance.IsPositive() {
			allocated = currency.Min(remaining, currency.Round(entry.RemainingBalance))
			remaining = currency.Sub(remaining, allocated)
			total = currency.Add(total, allocated)
		}
		allocations = append(allocations, domain.PaymentAllocation{
			TransactionID:   entry.TransactionID,
			LedgerRecordID:  entry.ID,
			AllocatedAmount: allocated,
			TransactionDate: entry.Date,
			Description:     entry.Description,
		})
	}

	return FIFOResult{
		Allocations:      allocations,
		TotalAllocated:   total,
		RemainingPayment: remaining,
	}
}

// SumAllocations adds up allocated amounts.
func SumAllocations(allocations []domain.PaymentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.AllocatedAmount)
	}
	return currency.Round(total)
}

// NonZeroAllocations drops allocations that settle nothing; only those are persisted.
func NonZeroAllocations(allocations []domain.PaymentAllocation) []domain.PaymentAllocation {
	out := make([]domain.PaymentAllocation, 0, len(allocations))
	for _, a := range allocations {
		if !a.AllocatedAmount.IsZero() {
			out = append(out, a)
		}
	}
	return out
}

// ValidateAllocations checks an allocation set against its payment: no negative
// amounts, no duplicate targets, a positive total, and a total within the
// payment amount.
func ValidateAllocations(paymentAmount decimal.Decimal, allocations []domain.PaymentAllocation) error {
	seen := make(map[string]struct{}, len(allocations))
	for _, a := range allocations {
		if a.LedgerRecordID == "" {
			return apperrors.NewValidationError("allocations", "every allocation needs a ledger record id")
		}
		if a.AllocatedAmount.IsNegative() {
			return apperrors.NewValidationError("allocations", fmt.Sprintf("negative amount for record %s", a.LedgerRecordID))
		}
		if _, dup := seen[a.LedgerRecordID]; dup {
			return apperrors.NewValidationError("allocations", fmt.Sprintf("record %s allocated more than once", a.LedgerRecordID))
		}
		seen[a.LedgerRecordID] = struct{}{}
	}

	total := SumAllocations(allocations)
	if !currency.IsPositive(total) {
		return apperrors.NewValidationError("allocations", "total allocated amount must be greater than zero")
	}
	if total.GreaterThan(paymentAmount) && !currency.Equal(total, paymentAmount) {
		return apperrors.NewValidationError("allocations",
			fmt.Sprintf("total allocated %s exceeds payment amount %s", currency.Format(total), currency.Format(paymentAmount)))
	}
	return nil
}

// ValidateAllocationTarget checks one allocation against the entry it settles.
// Overpaying the entry is only accepted when allowOverpayment is set (single
// target payments); the excess then shows as a negative remaining balance.
func ValidateAllocationTarget(allocation domain.PaymentAllocation, entry domain.LedgerEntry, settles domain.EntryType, allowOverpayment bool) error {
	if !entry.IsARAPEntry {
		return apperrors.NewValidationError("allocations", fmt.Sprintf("record %s is not tracked for settlement", entry.ID))
	}
	if entry.Type != settles {
		return apperrors.NewValidationError("allocations",
			fmt.Sprintf("record %s is %s and cannot be settled by this payment", entry.ID, entry.Type))
	}
	if allowOverpayment {
		return nil
	}
	if allocation.AllocatedAmount.GreaterThan(entry.RemainingBalance) && !currency.Equal(allocation.AllocatedAmount, entry.RemainingBalance) {
		return apperrors.NewValidationError("allocations",
			fmt.Sprintf("allocation %s exceeds remaining balance %s of record %s",
				currency.Format(allocation.AllocatedAmount), currency.Format(entry.RemainingBalance), entry.ID))
	}
	return nil
}
