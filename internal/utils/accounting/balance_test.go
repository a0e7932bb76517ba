package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPaymentStatus_Boundaries(t *testing.T) {
	tests := []struct {
		name          string
		settlement    domain.Settlement
		wantStatus    domain.PaymentStatus
		wantRemaining string
	}{
		{"nothing paid", domain.Settlement{Amount: dec("100")}, domain.StatusUnpaid, "100"},
		{"partly paid", domain.Settlement{Amount: dec("100"), TotalPaid: dec("40")}, domain.StatusPartial, "60"},
		{"fully paid", domain.Settlement{Amount: dec("100"), TotalPaid: dec("100")}, domain.StatusPaid, "0"},
		{"paid within tolerance", domain.Settlement{Amount: dec("100"), TotalPaid: dec("99.995")}, domain.StatusPaid, "0.01"},
		{"overpaid", domain.Settlement{Amount: dec("100"), TotalPaid: dec("150")}, domain.StatusPaid, "-50"},
		{"discount closes the gap", domain.Settlement{Amount: dec("100"), TotalPaid: dec("90"), TotalDiscount: dec("10")}, domain.StatusPaid, "0"},
		{"write-off closes the gap", domain.Settlement{Amount: dec("100"), TotalPaid: dec("30"), WriteoffAmount: dec("70")}, domain.StatusPaid, "0"},
		{"discount alone does not pay", domain.Settlement{Amount: dec("100"), TotalDiscount: dec("10")}, domain.StatusUnpaid, "90"},
		{"fully written off", domain.Settlement{Amount: dec("100"), WriteoffAmount: dec("100")}, domain.StatusPaid, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, accounting.PaymentStatus(tt.settlement))
			remaining := accounting.RemainingBalance(tt.settlement)
			assert.True(t, remaining.Equal(dec(tt.wantRemaining)), "remaining %s", remaining)
		})
	}
}

func TestInitializeSettlement(t *testing.T) {
	tracked := &domain.LedgerEntry{Amount: dec("80.255"), IsARAPEntry: true}
	accounting.InitializeSettlement(tracked)
	assert.Equal(t, domain.StatusUnpaid, tracked.PaymentStatus)
	assert.True(t, tracked.RemainingBalance.Equal(dec("80.26")))

	cash := &domain.LedgerEntry{Amount: dec("80"), IsARAPEntry: false}
	accounting.InitializeSettlement(cash)
	assert.Equal(t, domain.StatusPaid, cash.PaymentStatus)
	assert.True(t, cash.RemainingBalance.IsZero())
}

func TestApplyAndReversePayment(t *testing.T) {
	entry := &domain.LedgerEntry{ID: "e1", Amount: dec("100"), IsARAPEntry: true}
	accounting.InitializeSettlement(entry)

	accounting.ApplyPayment(entry, dec("40"))
	assert.Equal(t, domain.StatusPartial, entry.PaymentStatus)
	accounting.ApplyPayment(entry, dec("60"))
	assert.Equal(t, domain.StatusPaid, entry.PaymentStatus)

	require.NoError(t, accounting.ReversePayment(entry, dec("60")))
	assert.Equal(t, domain.StatusPartial, entry.PaymentStatus)
	assert.True(t, entry.RemainingBalance.Equal(dec("60")))

	require.NoError(t, accounting.ReversePayment(entry, dec("40")))
	assert.Equal(t, domain.StatusUnpaid, entry.PaymentStatus)
	assert.True(t, entry.TotalPaid.IsZero())
	assert.True(t, entry.RemainingBalance.Equal(dec("100")))
}

func TestReversePayment_NegativeIsIntegrityError(t *testing.T) {
	entry := &domain.LedgerEntry{ID: "e1", Amount: dec("100"), IsARAPEntry: true}
	accounting.InitializeSettlement(entry)
	accounting.ApplyPayment(entry, dec("30"))

	err := accounting.ReversePayment(entry, dec("50"))
	require.ErrorIs(t, err, apperrors.ErrDataIntegrity)
	var integrityErr *apperrors.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "e1", integrityErr.RecordID)
	assert.Equal(t, "totalPaid", integrityErr.Field)
	assert.Equal(t, "-20.00", integrityErr.Value)

	// Clamped, and the derived fields still agree with the numbers.
	assert.True(t, entry.TotalPaid.IsZero())
	assert.Equal(t, domain.StatusUnpaid, entry.PaymentStatus)
	assert.True(t, entry.RemainingBalance.Equal(dec("100")))
}

func TestDiscountAndWriteoff(t *testing.T) {
	entry := &domain.LedgerEntry{ID: "e1", Amount: dec("200"), IsARAPEntry: true}
	accounting.InitializeSettlement(entry)
	accounting.ApplyPayment(entry, dec("150"))

	accounting.ApplyDiscount(entry, dec("20"))
	assert.Equal(t, domain.StatusPartial, entry.PaymentStatus)
	assert.True(t, entry.RemainingBalance.Equal(dec("30")))

	accounting.ApplyWriteoff(entry, dec("30"))
	assert.Equal(t, domain.StatusPaid, entry.PaymentStatus)
	assert.True(t, entry.RemainingBalance.IsZero())

	require.NoError(t, accounting.ReverseWriteoff(entry, dec("30")))
	require.NoError(t, accounting.ReverseDiscount(entry, dec("20")))
	assert.True(t, entry.RemainingBalance.Equal(dec("50")))

	assert.ErrorIs(t, accounting.ReverseDiscount(entry, dec("1")), apperrors.ErrDataIntegrity)
	assert.ErrorIs(t, accounting.ReverseWriteoff(entry, dec("1")), apperrors.ErrDataIntegrity)
}

func TestBalanceInvariantHoldsAfterEveryOperation(t *testing.T) {
	entry := &domain.LedgerEntry{ID: "e1", Amount: dec("333.33"), IsARAPEntry: true}
	accounting.InitializeSettlement(entry)

	ops := []func(){
		func() { accounting.ApplyPayment(entry, dec("100.10")) },
		func() { accounting.ApplyDiscount(entry, dec("3.33")) },
		func() { accounting.ApplyPayment(entry, dec("0.01")) },
		func() { accounting.ApplyWriteoff(entry, dec("29.89")) },
		func() { _ = accounting.ReversePayment(entry, dec("0.01")) },
		func() { accounting.ApplyPayment(entry, dec("250")) },
	}
	for i, op := range ops {
		op()
		want := entry.Amount.Sub(entry.TotalPaid).Sub(entry.TotalDiscount).Sub(entry.WriteoffAmount)
		assert.True(t, entry.RemainingBalance.Equal(want), "step %d: remaining %s, want %s", i, entry.RemainingBalance, want)
	}
	assert.Equal(t, domain.StatusPaid, entry.PaymentStatus)
	assert.True(t, entry.RemainingBalance.IsNegative())
}
