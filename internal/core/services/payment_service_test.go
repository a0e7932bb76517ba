package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fifoReceipt(amount string) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		ClientName:       "acme",
		Amount:           dec(amount),
		Direction:        domain.Receipt,
		Date:             day(20),
		AllocationMethod: domain.AllocationFIFO,
	}
}

func TestCreatePayment_FIFO(t *testing.T) {
	f := newLedgerFixture(3)
	// Recorded out of date order on purpose.
	c := f.recordInvoice(t, 3, "30")
	a := f.recordInvoice(t, 1, "100")
	b := f.recordInvoice(t, 2, "50")

	payment, allocations, err := f.payments.CreatePayment(f.ctx, fifoReceipt("120"), testUser)
	require.NoError(t, err)

	require.Len(t, allocations, 2)
	assert.Equal(t, a.ID, allocations[0].LedgerRecordID)
	assert.Equal(t, b.ID, allocations[1].LedgerRecordID)
	assert.Equal(t, "100.00", allocations[0].AllocatedAmount.StringFixed(2))
	assert.Equal(t, "20.00", allocations[1].AllocatedAmount.StringFixed(2))
	assert.True(t, payment.IsMultiAllocation)
	assert.Equal(t, domain.AllocationFIFO, payment.AllocationMethod)
	assert.Equal(t, 2, payment.AllocationCount)
	assert.True(t, payment.TotalAllocated.Equal(dec("120")))
	assert.True(t, payment.UnallocatedAmount.IsZero())
	assert.Equal(t, []string{a.TransactionID, b.TransactionID}, payment.SettledTransactionIDs)

	assert.Equal(t, domain.StatusPaid, f.reload(t, a.ID).PaymentStatus)
	assert.Equal(t, domain.StatusPartial, f.reload(t, b.ID).PaymentStatus)
	assert.Equal(t, domain.StatusUnpaid, f.reload(t, c.ID).PaymentStatus)
	assert.Equal(t, "30.00", f.reload(t, b.ID).RemainingBalance.StringFixed(2))

	journals, err := f.store.FindJournalsBySource(f.ctx, domain.SourcePayment, payment.PaymentID)
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.True(t, journals[0].IsBalanced())
	assert.Equal(t, accounting.AccountCash, journals[0].Lines[0].AccountCode)
	assert.Equal(t, accounting.AccountReceivable, journals[0].Lines[1].AccountCode)
	assert.True(t, journals[0].Lines[0].Debit.Equal(dec("120")))
}

func TestCreatePayment_FIFOOverpaymentIsReported(t *testing.T) {
	f := newLedgerFixture(3)
	f.recordInvoice(t, 1, "100")
	f.recordInvoice(t, 2, "80")

	payment, allocations, err := f.payments.CreatePayment(f.ctx, fifoReceipt("200"), testUser)
	require.NoError(t, err)

	assert.Len(t, allocations, 2)
	assert.True(t, payment.TotalAllocated.Equal(dec("180")))
	assert.Equal(t, "20.00", payment.UnallocatedAmount.StringFixed(2))

	journals, err := f.store.FindJournalsBySource(f.ctx, domain.SourcePayment, payment.PaymentID)
	require.NoError(t, err)
	require.Len(t, journals, 2)
	credited := make(map[string]string)
	for _, j := range journals {
		assert.True(t, j.IsBalanced())
		for _, l := range j.Lines {
			if l.Credit.IsPositive() {
				credited[l.AccountCode] = l.Credit.StringFixed(2)
			}
		}
	}
	assert.Equal(t, map[string]string{
		accounting.AccountReceivable:       "180.00",
		accounting.AccountCustomerAdvances: "20.00",
	}, credited)
}

func TestCreatePayment_FIFODisbursementOverpaymentIsAnAdvance(t *testing.T) {
	f := newLedgerFixture(3)
	f.record(t, dto.CreateLedgerEntryRequest{
		Type: domain.EntryExpense, Category: "مشتريات", ClientName: "acme", Description: "bill",
		Amount: dec("60"), Date: day(1), IsTracked: true,
	})

	payment, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("75"), Direction: domain.Disbursement, Date: day(4),
		AllocationMethod: domain.AllocationFIFO,
	}, testUser)
	require.NoError(t, err)

	journals, err := f.store.FindJournalsBySource(f.ctx, domain.SourcePayment, payment.PaymentID)
	require.NoError(t, err)
	debited := make(map[string]string)
	for _, j := range journals {
		for _, l := range j.Lines {
			if l.Debit.IsPositive() {
				debited[l.AccountCode] = l.Debit.StringFixed(2)
			}
		}
	}
	assert.Equal(t, map[string]string{
		accounting.AccountPayable:          "60.00",
		accounting.AccountSupplierAdvances: "15.00",
	}, debited)

	require.NoError(t, f.payments.DeletePayment(f.ctx, payment.PaymentID, testUser))
	journals, err = f.store.FindJournalsBySource(f.ctx, domain.SourcePayment, payment.PaymentID)
	require.NoError(t, err)
	assert.Empty(t, journals)
}

func TestCreatePayment_FIFONothingOpen(t *testing.T) {
	f := newLedgerFixture(3)

	_, _, err := f.payments.CreatePayment(f.ctx, fifoReceipt("50"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreatePayment_SingleTargetAllowsOverpayment(t *testing.T) {
	f := newLedgerFixture(3)
	entry := f.recordInvoice(t, 1, "100")

	payment, allocations, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName:           "acme",
		Amount:               dec("150"),
		Direction:            domain.Receipt,
		Date:                 day(5),
		LinkedLedgerRecordID: entry.ID,
	}, testUser)
	require.NoError(t, err)

	assert.False(t, payment.IsMultiAllocation)
	assert.Equal(t, entry.TransactionID, payment.LinkedTransactionID)
	require.Len(t, allocations, 1)

	updated := f.reload(t, entry.ID)
	assert.Equal(t, domain.StatusPaid, updated.PaymentStatus)
	assert.Equal(t, "-50.00", updated.RemainingBalance.StringFixed(2), "overpayment is surfaced, not clamped")
}

func TestCreatePayment_DirectionMustMatchEntryType(t *testing.T) {
	f := newLedgerFixture(3)
	entry := f.recordInvoice(t, 1, "100")

	_, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName:           "acme",
		Amount:               dec("10"),
		Direction:            domain.Disbursement,
		Date:                 day(5),
		LinkedLedgerRecordID: entry.ID,
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreatePayment_Manual(t *testing.T) {
	f := newLedgerFixture(3)
	a := f.recordInvoice(t, 1, "100")
	b := f.recordInvoice(t, 2, "50")

	req := dto.CreatePaymentRequest{
		ClientName:       "acme",
		Amount:           dec("100"),
		Direction:        domain.Receipt,
		Date:             day(5),
		AllocationMethod: domain.AllocationManual,
		Allocations: []dto.ManualAllocationRequest{
			{LedgerRecordID: b.ID, Amount: dec("50")},
			{LedgerRecordID: a.ID, Amount: dec("30")},
		},
	}
	payment, allocations, err := f.payments.CreatePayment(f.ctx, req, testUser)
	require.NoError(t, err)

	assert.Len(t, allocations, 2)
	assert.Equal(t, "20.00", payment.UnallocatedAmount.StringFixed(2))
	assert.Equal(t, domain.StatusPaid, f.reload(t, b.ID).PaymentStatus)
	assert.Equal(t, "70.00", f.reload(t, a.ID).RemainingBalance.StringFixed(2))
}

func TestCreatePayment_ManualRejections(t *testing.T) {
	f := newLedgerFixture(3)
	a := f.recordInvoice(t, 1, "100")
	b := f.recordInvoice(t, 2, "50")

	manual := func(allocs ...dto.ManualAllocationRequest) dto.CreatePaymentRequest {
		return dto.CreatePaymentRequest{
			ClientName:       "acme",
			Amount:           dec("100"),
			Direction:        domain.Receipt,
			Date:             day(5),
			AllocationMethod: domain.AllocationManual,
			Allocations:      allocs,
		}
	}

	tests := []struct {
		name    string
		req     dto.CreatePaymentRequest
		wantErr error
	}{
		{"above remaining balance", manual(dto.ManualAllocationRequest{LedgerRecordID: b.ID, Amount: dec("60")}), apperrors.ErrValidation},
		{"above payment", manual(
			dto.ManualAllocationRequest{LedgerRecordID: a.ID, Amount: dec("90")},
			dto.ManualAllocationRequest{LedgerRecordID: b.ID, Amount: dec("20")},
		), apperrors.ErrValidation},
		{"unknown record aborts everything", manual(
			dto.ManualAllocationRequest{LedgerRecordID: a.ID, Amount: dec("40")},
			dto.ManualAllocationRequest{LedgerRecordID: "ghost", Amount: dec("10")},
		), apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.payments.CreatePayment(f.ctx, tt.req, testUser)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was persisted by any rejected attempt.
	assert.True(t, f.reload(t, a.ID).TotalPaid.IsZero())
	assert.True(t, f.reload(t, b.ID).TotalPaid.IsZero())
	res, err := f.payments.ListPayments(f.ctx, dto.ListPaymentsParams{ClientName: "acme", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Payments)
}

func TestCreatePayment_RequestValidation(t *testing.T) {
	f := newLedgerFixture(3)

	base := fifoReceipt("10")
	tests := []struct {
		name   string
		mutate func(r *dto.CreatePaymentRequest)
		userID string
	}{
		{"missing user", func(r *dto.CreatePaymentRequest) {}, ""},
		{"zero amount", func(r *dto.CreatePaymentRequest) { r.Amount = dec("0.001") }, testUser},
		{"no mode", func(r *dto.CreatePaymentRequest) { r.AllocationMethod = "" }, testUser},
		{"two modes", func(r *dto.CreatePaymentRequest) { r.LinkedLedgerRecordID = "x" }, testUser},
		{"bad direction", func(r *dto.CreatePaymentRequest) { r.Direction = "sideways" }, testUser},
		{"missing client", func(r *dto.CreatePaymentRequest) { r.ClientName = " " }, testUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, _, err := f.payments.CreatePayment(f.ctx, req, tt.userID)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestDeletePayment_RestoresEveryEntryExactly(t *testing.T) {
	f := newLedgerFixture(3)
	a := f.recordInvoice(t, 1, "100")
	b := f.recordInvoice(t, 2, "50.55")
	c := f.recordInvoice(t, 3, "30")

	// Pre-existing partial payment on b so the restore target is not just "unpaid".
	_, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("10.10"), Direction: domain.Receipt, Date: day(4), LinkedLedgerRecordID: b.ID,
	}, testUser)
	require.NoError(t, err)

	before := map[string]settlementSnapshot{}
	for _, id := range []string{a.ID, b.ID, c.ID} {
		before[id] = snapshotOf(f.reload(t, id))
	}

	payment, _, err := f.payments.CreatePayment(f.ctx, fifoReceipt("145.45"), testUser)
	require.NoError(t, err)
	assert.NotEqual(t, before[b.ID], snapshotOf(f.reload(t, b.ID)))

	require.NoError(t, f.payments.DeletePayment(f.ctx, payment.PaymentID, testUser))

	for _, id := range []string{a.ID, b.ID, c.ID} {
		assert.Equal(t, before[id], snapshotOf(f.reload(t, id)), "entry %s", id)
	}
	_, _, err = f.payments.GetPayment(f.ctx, payment.PaymentID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	journals, err := f.store.FindJournalsBySource(f.ctx, domain.SourcePayment, payment.PaymentID)
	require.NoError(t, err)
	assert.Empty(t, journals)
}

func TestDeletePayment_DataIntegrityAborts(t *testing.T) {
	f := newLedgerFixture(3)
	entry := f.recordInvoice(t, 1, "100")
	payment, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("60"), Direction: domain.Receipt, Date: day(2), LinkedLedgerRecordID: entry.ID,
	}, testUser)
	require.NoError(t, err)

	// Corrupt the entry as if the payment had already been reversed once.
	err = f.store.RunAtomic(f.ctx, func(ctx context.Context, tx portsrepo.AtomicTx) error {
		entries, err := tx.GetLedgerEntries(ctx, []string{entry.ID})
		if err != nil {
			return err
		}
		e := entries[0]
		e.TotalPaid = dec("20")
		accounting.Recompute(&e)
		return tx.UpdateLedgerSettlement(ctx, e)
	})
	require.NoError(t, err)

	err = f.payments.DeletePayment(f.ctx, payment.PaymentID, testUser)
	require.ErrorIs(t, err, apperrors.ErrDataIntegrity)

	_, _, err = f.payments.GetPayment(f.ctx, payment.PaymentID)
	assert.NoError(t, err, "payment must survive an aborted delete")
	assert.Equal(t, "20.00", f.reload(t, entry.ID).TotalPaid.StringFixed(2))
}

func TestCreatePayment_RetriesOnConflict(t *testing.T) {
	f := newLedgerFixture(3)
	entry := f.recordInvoice(t, 1, "100")

	f.interleaveOnce(t, entry.ID)
	_, _, err := f.payments.CreatePayment(f.ctx, fifoReceipt("40"), testUser)
	require.NoError(t, err)

	updated := f.reload(t, entry.ID)
	assert.Equal(t, "40.00", updated.TotalPaid.StringFixed(2), "applied exactly once")
	assert.Equal(t, domain.StatusPartial, updated.PaymentStatus)
}

func TestCreatePayment_ConflictSurfacesAfterRetries(t *testing.T) {
	f := newLedgerFixture(1)
	entry := f.recordInvoice(t, 1, "100")

	f.interleaveAlways(t, entry.ID)
	_, _, err := f.payments.CreatePayment(f.ctx, fifoReceipt("40"), testUser)
	f.store.SetBeforeCommitHook(nil)

	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.True(t, apperrors.IsRetryable(err))
	assert.True(t, f.reload(t, entry.ID).TotalPaid.IsZero())
}

func TestPreviewFIFO(t *testing.T) {
	f := newLedgerFixture(3)
	f.recordInvoice(t, 3, "30")
	f.recordInvoice(t, 1, "100")
	f.recordInvoice(t, 2, "50")

	result, err := f.payments.PreviewFIFO(f.ctx, "acme", domain.Receipt, dec("120"))
	require.NoError(t, err)

	var got []string
	for _, a := range result.Allocations {
		got = append(got, a.AllocatedAmount.StringFixed(2))
	}
	assert.Equal(t, []string{"100.00", "20.00", "0.00"}, got)
	assert.True(t, result.RemainingPayment.IsZero())

	// A preview writes nothing.
	open, err := f.entries.ListOpenEntries(f.ctx, "acme", domain.EntryIncome)
	require.NoError(t, err)
	for _, e := range open {
		assert.True(t, e.TotalPaid.IsZero())
	}
}

func TestListPayments_Pages(t *testing.T) {
	f := newLedgerFixture(3)
	entry := f.recordInvoice(t, 1, "1000")
	for d := 2; d <= 4; d++ {
		_, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
			ClientName: "acme", Amount: dec("10"), Direction: domain.Receipt, Date: day(d), LinkedLedgerRecordID: entry.ID,
		}, testUser)
		require.NoError(t, err)
	}

	first, err := f.payments.ListPayments(f.ctx, dto.ListPaymentsParams{ClientName: "acme", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Payments, 2)
	require.NotNil(t, first.NextToken)
	assert.Equal(t, day(4), first.Payments[0].Date)

	second, err := f.payments.ListPayments(f.ctx, dto.ListPaymentsParams{ClientName: "acme", Limit: 2, NextToken: first.NextToken})
	require.NoError(t, err)
	require.Len(t, second.Payments, 1)
	assert.Nil(t, second.NextToken)
	assert.Equal(t, day(2), second.Payments[0].Date)
}
