package accounting

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
)

// MappingInput carries everything account resolution depends on.
type MappingInput struct {
	Type        domain.EntryType
	Category    string
	SubCategory string
	// IsTracked is true when the entry is followed as a receivable or payable.
	IsTracked bool
	// IsSettledImmediately is true when cash moved at recording time.
	IsSettledImmediately bool
}

var revenueAccounts = map[domain.Category]string{
	domain.CategorySales:       AccountSalesRevenue,
	domain.CategoryServices:    AccountServiceRevenue,
	domain.CategoryOtherIncome: AccountOtherIncome,
	domain.CategoryRent:        AccountOtherIncome,
}

var expenseAccounts = map[domain.Category]string{
	domain.CategoryPurchases:      AccountCostOfGoodsSold,
	domain.CategorySalaries:       AccountSalaries,
	domain.CategoryRent:           AccountRent,
	domain.CategoryUtilities:      AccountUtilities,
	domain.CategoryTransportation: AccountTransportation,
	domain.CategoryMarketing:      AccountMarketing,
	domain.CategoryMaintenance:    AccountMaintenance,
	domain.CategoryDepreciation:   AccountDepreciation,
	domain.CategoryOtherExpenses:  AccountOtherExpenses,
}

// Subcategories that pin a more specific account than their category.
var revenueSubCategoryAccounts = map[string]string{
	"استشارات":   AccountServiceRevenue,
	"consulting": AccountServiceRevenue,
	"عمولة":      AccountOtherIncome,
	"commission": AccountOtherIncome,
}

var expenseSubCategoryAccounts = map[string]string{
	"كهرباء":      AccountUtilities,
	"electricity": AccountUtilities,
	"مياه":        AccountUtilities,
	"water":       AccountUtilities,
	"إنترنت":      AccountUtilities,
	"internet":    AccountUtilities,
	"وقود":        AccountTransportation,
	"fuel":        AccountTransportation,
	"إعلانات":     AccountMarketing,
	"advertising": AccountMarketing,
	"بضاعة":       AccountCostOfGoodsSold,
	"inventory":   AccountCostOfGoodsSold,
}

func normalizeKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

func pair(debit, credit string) domain.AccountMapping {
	return domain.AccountMapping{
		DebitAccount:      debit,
		CreditAccount:     credit,
		DebitAccountName:  AccountName(debit),
		CreditAccountName: AccountName(credit),
	}
}

// MapAccounts resolves the debit/credit pair for an entry. It never fails: an
// unknown category yields a default account with Fallback set.
//
// Resolution order, first match wins: equity, advances, loans, income, expense.
// Advances and loans are balance-sheet movements and must never reach the
// income/expense branches.
func MapAccounts(in MappingInput) domain.AccountMapping {
	category := domain.ParseCategory(in.Category)

	switch {
	case category.IsEquity():
		return mapEquity(category)
	case category.IsAdvance():
		return mapAdvance(category)
	case category.IsLoan():
		return mapLoan(category, domain.ParseLoanPhase(in.SubCategory))
	}

	switch in.Type {
	case domain.EntryEquity:
		// Equity entry with a category we do not know: book as a capital contribution.
		m := mapEquity(domain.CategoryOwnerCapital)
		m.Fallback = true
		return m
	case domain.EntryExpense:
		return mapExpense(category, in)
	default:
		return mapIncome(category, in)
	}
}

func mapEquity(category domain.Category) domain.AccountMapping {
	if category == domain.CategoryOwnerDrawings {
		return pair(AccountOwnerDrawings, AccountCash)
	}
	return pair(AccountCash, AccountOwnerCapital)
}

func mapAdvance(category domain.Category) domain.AccountMapping {
	if category == domain.CategorySupplierAdvance {
		return pair(AccountSupplierAdvances, AccountCash)
	}
	return pair(AccountCash, AccountCustomerAdvances)
}

func mapLoan(category domain.Category, phase domain.LoanPhase) domain.AccountMapping {
	switch {
	case category == domain.CategoryLoanGiven && phase == domain.LoanInitial:
		return pair(AccountLoansReceivable, AccountCash)
	case category == domain.CategoryLoanGiven:
		return pair(AccountCash, AccountLoansReceivable)
	case phase == domain.LoanInitial:
		return pair(AccountCash, AccountLoansPayable)
	default:
		return pair(AccountLoansPayable, AccountCash)
	}
}

func usesOpenAccount(in MappingInput) bool {
	return in.IsTracked && !in.IsSettledImmediately
}

func mapIncome(category domain.Category, in MappingInput) domain.AccountMapping {
	debit := AccountCash
	if usesOpenAccount(in) {
		debit = AccountReceivable
	}

	credit, ok := revenueSubCategoryAccounts[normalizeKey(in.SubCategory)]
	if !ok {
		credit, ok = revenueAccounts[category]
	}
	if !ok {
		m := pair(debit, AccountSalesRevenue)
		m.Fallback = true
		return m
	}
	return pair(debit, credit)
}

func mapExpense(category domain.Category, in MappingInput) domain.AccountMapping {
	if category == domain.CategoryDepreciation {
		// Non-cash: the expense accrues against the contra-asset.
		return pair(AccountDepreciation, AccountAccumulatedDepreciation)
	}

	credit := AccountCash
	if usesOpenAccount(in) {
		credit = AccountPayable
	}

	debit, ok := expenseSubCategoryAccounts[normalizeKey(in.SubCategory)]
	if !ok {
		debit, ok = expenseAccounts[category]
	}
	if !ok {
		m := pair(AccountOtherExpenses, credit)
		m.Fallback = true
		return m
	}
	return pair(debit, credit)
}

// IsFixedAssetCategory reports whether an expense must be capitalized with
// CapitalizationMapping instead of going through MapAccounts.
func IsFixedAssetCategory(category string) bool {
	return domain.ParseCategory(category) == domain.CategoryFixedAssets
}

// CapitalizationMapping books a fixed-asset purchase on the balance sheet.
func CapitalizationMapping(isTracked, isSettledImmediately bool) domain.AccountMapping {
	if isTracked && !isSettledImmediately {
		return pair(AccountFixedAssets, AccountPayable)
	}
	return pair(AccountFixedAssets, AccountCash)
}

// DiscountMapping books a settlement discount granted (income) or received (expense).
func DiscountMapping(entryType domain.EntryType) domain.AccountMapping {
	if entryType == domain.EntryExpense {
		return pair(AccountPayable, AccountPurchaseDiscounts)
	}
	return pair(AccountSalesDiscounts, AccountReceivable)
}

// WriteoffMapping books an uncollectible receivable or a forgiven payable.
func WriteoffMapping(entryType domain.EntryType) domain.AccountMapping {
	if entryType == domain.EntryExpense {
		return pair(AccountPayable, AccountOtherIncome)
	}
	return pair(AccountBadDebts, AccountReceivable)
}

// PaymentMapping books cash settling a receivable or a payable.
func PaymentMapping(direction domain.PaymentDirection) domain.AccountMapping {
	if direction == domain.Disbursement {
		return pair(AccountPayable, AccountCash)
	}
	return pair(AccountCash, AccountReceivable)
}

// AdvanceMapping books the part of a payment no open record absorbed.
func AdvanceMapping(direction domain.PaymentDirection) domain.AccountMapping {
	if direction == domain.Disbursement {
		return mapAdvance(domain.CategorySupplierAdvance)
	}
	return mapAdvance(domain.CategoryCustomerAdvance)
}

// Mapper wraps MapAccounts so that fallbacks are logged and counted per
// category text, which keeps unmapped categories discoverable.
type Mapper struct {
	mu       sync.Mutex
	unmapped map[string]int
}

func NewMapper() *Mapper {
	return &Mapper{unmapped: make(map[string]int)}
}

// Map resolves the mapping and records a fallback, if any. logger is the
// request-scoped logger of the caller.
func (m *Mapper) Map(logger *slog.Logger, in MappingInput) domain.AccountMapping {
	mapping := MapAccounts(in)
	if !mapping.Fallback {
		return mapping
	}

	key := normalizeKey(in.Category)
	m.mu.Lock()
	m.unmapped[key]++
	count := m.unmapped[key]
	m.mu.Unlock()

	logger.Warn("Category not mapped, using default account",
		slog.String("category", in.Category),
		slog.String("type", string(in.Type)),
		slog.String("debit_account", mapping.DebitAccount),
		slog.String("credit_account", mapping.CreditAccount),
		slog.Int("occurrences", count))
	return mapping
}

// UnmappedCounts returns a snapshot of fallback counts keyed by normalized category text.
func (m *Mapper) UnmappedCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.unmapped))
	for k, v := range m.unmapped {
		out[k] = v
	}
	return out
}
