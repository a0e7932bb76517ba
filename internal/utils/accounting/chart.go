package accounting

import (
	"sort"
	"strconv"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Account codes of the fixed chart. The leading digit decides the account type.
const (
	AccountCash                    = "1000"
	AccountBank                    = "1100"
	AccountReceivable              = "1200"
	AccountLoansReceivable         = "1250"
	AccountSupplierAdvances        = "1350"
	AccountFixedAssets             = "1500"
	AccountAccumulatedDepreciation = "1510"

	AccountPayable          = "2000"
	AccountCustomerAdvances = "2100"
	AccountLoansPayable     = "2200"

	AccountOwnerCapital  = "3000"
	AccountOwnerDrawings = "3100"

	AccountSalesRevenue      = "4000"
	AccountServiceRevenue    = "4100"
	AccountOtherIncome       = "4200"
	AccountPurchaseDiscounts = "4900"

	AccountCostOfGoodsSold = "5000"
	AccountSalaries        = "5100"
	AccountRent            = "5200"
	AccountUtilities       = "5300"
	AccountTransportation  = "5400"
	AccountMarketing       = "5500"
	AccountMaintenance     = "5600"
	AccountDepreciation    = "5700"
	AccountSalesDiscounts  = "5800"
	AccountBadDebts        = "5900"
	AccountOtherExpenses   = "5950"
)

var chartOfAccounts = map[string]domain.Account{
	AccountCash:                    {Code: AccountCash, Name: "Cash", NameLocalized: "النقدية"},
	AccountBank:                    {Code: AccountBank, Name: "Bank", NameLocalized: "البنك"},
	AccountReceivable:              {Code: AccountReceivable, Name: "Accounts Receivable", NameLocalized: "الذمم المدينة"},
	AccountLoansReceivable:         {Code: AccountLoansReceivable, Name: "Loans Receivable", NameLocalized: "قروض ممنوحة"},
	AccountSupplierAdvances:        {Code: AccountSupplierAdvances, Name: "Supplier Advances", NameLocalized: "سلف الموردين"},
	AccountFixedAssets:             {Code: AccountFixedAssets, Name: "Fixed Assets", NameLocalized: "الأصول الثابتة"},
	AccountAccumulatedDepreciation: {Code: AccountAccumulatedDepreciation, Name: "Accumulated Depreciation", NameLocalized: "مجمع الإهلاك"},
	AccountPayable:                 {Code: AccountPayable, Name: "Accounts Payable", NameLocalized: "الذمم الدائنة"},
	AccountCustomerAdvances:        {Code: AccountCustomerAdvances, Name: "Customer Advances", NameLocalized: "سلف العملاء"},
	AccountLoansPayable:            {Code: AccountLoansPayable, Name: "Loans Payable", NameLocalized: "قروض مستلمة"},
	AccountOwnerCapital:            {Code: AccountOwnerCapital, Name: "Owner's Capital", NameLocalized: "رأس المال"},
	AccountOwnerDrawings:           {Code: AccountOwnerDrawings, Name: "Owner's Drawings", NameLocalized: "سحوبات المالك"},
	AccountSalesRevenue:            {Code: AccountSalesRevenue, Name: "Sales Revenue", NameLocalized: "إيرادات المبيعات"},
	AccountServiceRevenue:          {Code: AccountServiceRevenue, Name: "Service Revenue", NameLocalized: "إيرادات الخدمات"},
	AccountOtherIncome:             {Code: AccountOtherIncome, Name: "Other Income", NameLocalized: "إيرادات أخرى"},
	AccountPurchaseDiscounts:       {Code: AccountPurchaseDiscounts, Name: "Purchase Discounts", NameLocalized: "خصم مكتسب"},
	AccountCostOfGoodsSold:         {Code: AccountCostOfGoodsSold, Name: "Cost of Goods Sold", NameLocalized: "تكلفة البضاعة المباعة"},
	AccountSalaries:                {Code: AccountSalaries, Name: "Salaries", NameLocalized: "الرواتب"},
	AccountRent:                    {Code: AccountRent, Name: "Rent", NameLocalized: "الإيجار"},
	AccountUtilities:               {Code: AccountUtilities, Name: "Utilities", NameLocalized: "المرافق"},
	AccountTransportation:          {Code: AccountTransportation, Name: "Transportation", NameLocalized: "المواصلات"},
	AccountMarketing:               {Code: AccountMarketing, Name: "Marketing", NameLocalized: "التسويق"},
	AccountMaintenance:             {Code: AccountMaintenance, Name: "Maintenance", NameLocalized: "الصيانة"},
	AccountDepreciation:            {Code: AccountDepreciation, Name: "Depreciation Expense", NameLocalized: "مصروف الإهلاك"},
	AccountSalesDiscounts:          {Code: AccountSalesDiscounts, Name: "Sales Discounts", NameLocalized: "خصم مسموح به"},
	AccountBadDebts:                {Code: AccountBadDebts, Name: "Bad Debts", NameLocalized: "ديون معدومة"},
	AccountOtherExpenses:           {Code: AccountOtherExpenses, Name: "Other Expenses", NameLocalized: "مصروفات أخرى"},
}

func init() {
	for code, acc := range chartOfAccounts {
		acc.AccountType = AccountTypeFromCode(code)
		chartOfAccounts[code] = acc
	}
}

// LookupAccount returns the chart entry for code.
func LookupAccount(code string) (domain.Account, bool) {
	acc, ok := chartOfAccounts[code]
	return acc, ok
}

// AccountName returns the localized name of code, or the code itself when it is not in the chart.
func AccountName(code string) string {
	if acc, ok := chartOfAccounts[code]; ok {
		return acc.NameLocalized
	}
	return code
}

// ChartOfAccounts returns every account ordered by code.
func ChartOfAccounts() []domain.Account {
	accounts := make([]domain.Account, 0, len(chartOfAccounts))
	for _, acc := range chartOfAccounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts
}

// AccountTypeFromCode classifies a code by its thousands range.
// Unrecognized codes are treated as expense.
func AccountTypeFromCode(code string) domain.AccountType {
	n, err := strconv.Atoi(code)
	if err != nil {
		return domain.Expense
	}
	switch {
	case n >= 1000 && n < 2000:
		return domain.Asset
	case n >= 2000 && n < 3000:
		return domain.Liability
	case n >= 3000 && n < 4000:
		return domain.Equity
	case n >= 4000 && n < 5000:
		return domain.Revenue
	}
	return domain.Expense
}

// IsContraAsset reports whether code reduces the value of another asset.
// Only accumulated depreciation qualifies.
func IsContraAsset(code string) bool {
	return code == AccountAccumulatedDepreciation
}

// AdjustedBalance returns the balance to add into asset totals: negated for
// contra-assets, unchanged otherwise.
func AdjustedBalance(balance decimal.Decimal, code string) decimal.Decimal {
	if IsContraAsset(code) {
		return balance.Neg()
	}
	return balance
}
