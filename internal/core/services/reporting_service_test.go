package services_test

import (
	"testing"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBooks records a small month of activity:
// capital 1000, invoice 300 with 100 collected, salaries 200,
// a 400 fixed asset and 50 of depreciation.
func seedBooks(t *testing.T, f *ledgerFixture) {
	t.Helper()
	f.record(t, dto.CreateLedgerEntryRequest{Type: domain.EntryEquity, Category: "رأس المال", Description: "capital", Amount: dec("1000"), Date: day(1)})
	invoice := f.recordInvoice(t, 2, "300")
	f.record(t, dto.CreateLedgerEntryRequest{Type: domain.EntryExpense, Category: "رواتب", Description: "salaries", Amount: dec("200"), Date: day(3)})
	f.record(t, dto.CreateLedgerEntryRequest{Type: domain.EntryExpense, Category: "أصول ثابتة", Description: "laptop", Amount: dec("400"), Date: day(4)})
	f.record(t, dto.CreateLedgerEntryRequest{Type: domain.EntryExpense, Category: "إهلاك", Description: "depreciation", Amount: dec("50"), Date: day(5)})

	_, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("100"), Direction: domain.Receipt, Date: day(6), LinkedLedgerRecordID: invoice.ID,
	}, testUser)
	require.NoError(t, err)
}

func amountsByCode(amounts []domain.AccountAmount) map[string]string {
	out := make(map[string]string, len(amounts))
	for _, a := range amounts {
		key := a.AccountCode
		if key == "" {
			key = a.Name
		}
		out[key] = a.NetAmount.StringFixed(2)
	}
	return out
}

func TestTrialBalance(t *testing.T) {
	f := newLedgerFixture(3)
	seedBooks(t, f)

	report, err := f.reports.TrialBalance(f.ctx, day(31))
	require.NoError(t, err)

	assert.True(t, report.IsBalanced)
	assert.Equal(t, "1350.00", report.TotalDebits.StringFixed(2))
	assert.Equal(t, "1350.00", report.TotalCredits.StringFixed(2))

	codes := make([]string, len(report.Rows))
	for i, row := range report.Rows {
		codes[i] = row.AccountCode
	}
	assert.Equal(t, []string{
		accounting.AccountCash,
		accounting.AccountReceivable,
		accounting.AccountFixedAssets,
		accounting.AccountAccumulatedDepreciation,
		accounting.AccountOwnerCapital,
		accounting.AccountSalesRevenue,
		accounting.AccountSalaries,
		accounting.AccountDepreciation,
	}, codes)

	byCode := make(map[string]domain.TrialBalanceRow)
	for _, row := range report.Rows {
		byCode[row.AccountCode] = row
	}
	assert.Equal(t, "500.00", byCode[accounting.AccountCash].Debit.StringFixed(2))
	assert.Equal(t, "50.00", byCode[accounting.AccountAccumulatedDepreciation].Credit.StringFixed(2))
	assert.True(t, byCode[accounting.AccountAccumulatedDepreciation].Debit.IsZero())
}

func TestTrialBalance_ReceivableMatchesOpenEntriesAfterOverpayment(t *testing.T) {
	f := newLedgerFixture(3)
	f.recordInvoice(t, 1, "100")
	f.recordInvoice(t, 2, "50")
	f.record(t, dto.CreateLedgerEntryRequest{
		Type: domain.EntryIncome, Category: "مبيعات", ClientName: "globex", Description: "invoice",
		Amount: dec("70"), Date: day(3), IsTracked: true,
	})

	payment, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("200"), Direction: domain.Receipt, Date: day(5),
		AllocationMethod: domain.AllocationFIFO,
	}, testUser)
	require.NoError(t, err)
	require.Equal(t, "50.00", payment.UnallocatedAmount.StringFixed(2))

	openTotal := decimal.Zero
	for _, client := range []string{"acme", "globex"} {
		open, err := f.entries.ListOpenEntries(f.ctx, client, domain.EntryIncome)
		require.NoError(t, err)
		for _, e := range open {
			openTotal = openTotal.Add(e.RemainingBalance)
		}
	}

	report, err := f.reports.TrialBalance(f.ctx, day(31))
	require.NoError(t, err)
	assert.True(t, report.IsBalanced)

	byCode := make(map[string]domain.TrialBalanceRow)
	for _, row := range report.Rows {
		byCode[row.AccountCode] = row
	}
	receivable := byCode[accounting.AccountReceivable]
	assert.True(t, receivable.Credit.IsZero())
	assert.Equal(t, openTotal.StringFixed(2), receivable.Debit.StringFixed(2))
	assert.Equal(t, "70.00", receivable.Debit.StringFixed(2))
	assert.Equal(t, "50.00", byCode[accounting.AccountCustomerAdvances].Credit.StringFixed(2))
}

func TestTrialBalance_Empty(t *testing.T) {
	f := newLedgerFixture(3)

	report, err := f.reports.TrialBalance(f.ctx, day(31))
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.True(t, report.IsBalanced)
}

func TestProfitAndLoss(t *testing.T) {
	f := newLedgerFixture(3)
	seedBooks(t, f)

	report, err := f.reports.ProfitAndLoss(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{accounting.AccountSalesRevenue: "300.00"}, amountsByCode(report.Revenue))
	assert.Equal(t, map[string]string{
		accounting.AccountSalaries:     "200.00",
		accounting.AccountDepreciation: "50.00",
	}, amountsByCode(report.Expenses))
	assert.Equal(t, "50.00", report.NetProfit.StringFixed(2))

	early, err := f.reports.ProfitAndLoss(f.ctx, day(3))
	require.NoError(t, err)
	assert.Equal(t, "100.00", early.NetProfit.StringFixed(2), "entries after asOf are excluded")
}

func TestBalanceSheet(t *testing.T) {
	f := newLedgerFixture(3)
	seedBooks(t, f)

	report, err := f.reports.BalanceSheet(f.ctx, day(31))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		accounting.AccountCash:                    "500.00",
		accounting.AccountReceivable:              "200.00",
		accounting.AccountFixedAssets:             "400.00",
		accounting.AccountAccumulatedDepreciation: "-50.00",
	}, amountsByCode(report.Assets))
	assert.Empty(t, report.Liabilities)
	assert.Equal(t, map[string]string{
		accounting.AccountOwnerCapital: "1000.00",
		"Current period earnings":      "50.00",
	}, amountsByCode(report.Equity))

	assert.Equal(t, "1050.00", report.TotalAssets.StringFixed(2))
	assert.Equal(t, "1050.00", report.TotalEquity.StringFixed(2))
	assert.True(t, report.IsBalanced)
}

func TestBalanceSheet_DeletedPaymentLeavesItBalanced(t *testing.T) {
	f := newLedgerFixture(3)
	invoice := f.recordInvoice(t, 1, "80")
	payment, _, err := f.payments.CreatePayment(f.ctx, dto.CreatePaymentRequest{
		ClientName: "acme", Amount: dec("80"), Direction: domain.Receipt, Date: day(2), LinkedLedgerRecordID: invoice.ID,
	}, testUser)
	require.NoError(t, err)
	require.NoError(t, f.payments.DeletePayment(f.ctx, payment.PaymentID, testUser))

	report, err := f.reports.BalanceSheet(f.ctx, day(31))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{accounting.AccountReceivable: "80.00"}, amountsByCode(report.Assets))
	assert.True(t, report.IsBalanced)
}
