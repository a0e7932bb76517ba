package accounting_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func TestMapAccounts(t *testing.T) {
	tests := []struct {
		name       string
		in         accounting.MappingInput
		wantDebit  string
		wantCredit string
		fallback   bool
	}{
		{
			name:       "customer advance recorded as income goes through the advance branch",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "سلفة عميل", IsTracked: true},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountCustomerAdvances,
		},
		{
			name:       "supplier advance",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "سلفة مورد"},
			wantDebit:  accounting.AccountSupplierAdvances,
			wantCredit: accounting.AccountCash,
		},
		{
			name:       "owner capital",
			in:         accounting.MappingInput{Type: domain.EntryEquity, Category: "رأس المال"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountOwnerCapital,
		},
		{
			name:       "owner drawings recorded as expense is still equity",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "سحوبات المالك", IsTracked: true},
			wantDebit:  accounting.AccountOwnerDrawings,
			wantCredit: accounting.AccountCash,
		},
		{
			name:       "unknown equity category",
			in:         accounting.MappingInput{Type: domain.EntryEquity, Category: "شيء"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountOwnerCapital,
			fallback:   true,
		},
		{
			name:       "loan given disbursement",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "قرض ممنوح"},
			wantDebit:  accounting.AccountLoansReceivable,
			wantCredit: accounting.AccountCash,
		},
		{
			name:       "loan given collection",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "قرض ممنوح", SubCategory: "تحصيل قرض"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountLoansReceivable,
		},
		{
			name:       "loan received",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "قرض مستلم"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountLoansPayable,
		},
		{
			name:       "loan received repayment",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "قرض مستلم", SubCategory: "سداد قرض"},
			wantDebit:  accounting.AccountLoansPayable,
			wantCredit: accounting.AccountCash,
		},
		{
			name:       "tracked credit sale",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "مبيعات", IsTracked: true},
			wantDebit:  accounting.AccountReceivable,
			wantCredit: accounting.AccountSalesRevenue,
		},
		{
			name:       "tracked sale settled immediately",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "مبيعات", IsTracked: true, IsSettledImmediately: true},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountSalesRevenue,
		},
		{
			name:       "service income via subcategory",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "مبيعات", SubCategory: "استشارات"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountServiceRevenue,
		},
		{
			name:       "unknown income category falls back to sales revenue",
			in:         accounting.MappingInput{Type: domain.EntryIncome, Category: "هدايا"},
			wantDebit:  accounting.AccountCash,
			wantCredit: accounting.AccountSalesRevenue,
			fallback:   true,
		},
		{
			name:       "tracked rent expense",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "إيجار", IsTracked: true},
			wantDebit:  accounting.AccountRent,
			wantCredit: accounting.AccountPayable,
		},
		{
			name:       "electricity subcategory overrides category",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "مصروفات أخرى", SubCategory: "كهرباء"},
			wantDebit:  accounting.AccountUtilities,
			wantCredit: accounting.AccountCash,
		},
		{
			name:       "depreciation accrues against the contra-asset",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "إهلاك", IsTracked: true},
			wantDebit:  accounting.AccountDepreciation,
			wantCredit: accounting.AccountAccumulatedDepreciation,
		},
		{
			name:       "unknown expense category falls back to other expenses",
			in:         accounting.MappingInput{Type: domain.EntryExpense, Category: "متفرقات", IsTracked: true},
			wantDebit:  accounting.AccountOtherExpenses,
			wantCredit: accounting.AccountPayable,
			fallback:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.MapAccounts(tt.in)
			assert.Equal(t, tt.wantDebit, got.DebitAccount)
			assert.Equal(t, tt.wantCredit, got.CreditAccount)
			assert.Equal(t, tt.fallback, got.Fallback)
			assert.Equal(t, accounting.AccountName(tt.wantDebit), got.DebitAccountName)
			assert.Equal(t, accounting.AccountName(tt.wantCredit), got.CreditAccountName)
		})
	}
}

func TestSettlementMappings(t *testing.T) {
	m := accounting.DiscountMapping(domain.EntryIncome)
	assert.Equal(t, []string{accounting.AccountSalesDiscounts, accounting.AccountReceivable}, []string{m.DebitAccount, m.CreditAccount})
	m = accounting.DiscountMapping(domain.EntryExpense)
	assert.Equal(t, []string{accounting.AccountPayable, accounting.AccountPurchaseDiscounts}, []string{m.DebitAccount, m.CreditAccount})

	m = accounting.WriteoffMapping(domain.EntryIncome)
	assert.Equal(t, []string{accounting.AccountBadDebts, accounting.AccountReceivable}, []string{m.DebitAccount, m.CreditAccount})
	m = accounting.WriteoffMapping(domain.EntryExpense)
	assert.Equal(t, []string{accounting.AccountPayable, accounting.AccountOtherIncome}, []string{m.DebitAccount, m.CreditAccount})

	m = accounting.PaymentMapping(domain.Receipt)
	assert.Equal(t, []string{accounting.AccountCash, accounting.AccountReceivable}, []string{m.DebitAccount, m.CreditAccount})
	m = accounting.PaymentMapping(domain.Disbursement)
	assert.Equal(t, []string{accounting.AccountPayable, accounting.AccountCash}, []string{m.DebitAccount, m.CreditAccount})

	m = accounting.AdvanceMapping(domain.Receipt)
	assert.Equal(t, []string{accounting.AccountCash, accounting.AccountCustomerAdvances}, []string{m.DebitAccount, m.CreditAccount})
	m = accounting.AdvanceMapping(domain.Disbursement)
	assert.Equal(t, []string{accounting.AccountSupplierAdvances, accounting.AccountCash}, []string{m.DebitAccount, m.CreditAccount})

	assert.True(t, accounting.IsFixedAssetCategory("أصول ثابتة"))
	assert.False(t, accounting.IsFixedAssetCategory("مشتريات"))
	m = accounting.CapitalizationMapping(true, false)
	assert.Equal(t, []string{accounting.AccountFixedAssets, accounting.AccountPayable}, []string{m.DebitAccount, m.CreditAccount})
	m = accounting.CapitalizationMapping(true, true)
	assert.Equal(t, accounting.AccountCash, m.CreditAccount)
}

func TestMapper_CountsFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mapper := accounting.NewMapper()

	mapper.Map(logger, accounting.MappingInput{Type: domain.EntryIncome, Category: "مبيعات"})
	assert.Empty(t, mapper.UnmappedCounts())
	assert.Zero(t, buf.Len())

	mapper.Map(logger, accounting.MappingInput{Type: domain.EntryExpense, Category: "Gifts"})
	mapper.Map(logger, accounting.MappingInput{Type: domain.EntryExpense, Category: " gifts "})

	assert.Equal(t, map[string]int{"gifts": 2}, mapper.UnmappedCounts())
	assert.Contains(t, buf.String(), "Category not mapped")
}
