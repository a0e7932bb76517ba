package domain

import "strings"

// Category is the closed set of business categories that drive account mapping.
// Free-text categories from callers are resolved with ParseCategory.
type Category string

const (
	// Income
	CategorySales       Category = "sales"
	CategoryServices    Category = "services"
	CategoryOtherIncome Category = "other_income"

	// Expense
	CategoryPurchases      Category = "purchases"
	CategorySalaries       Category = "salaries"
	CategoryRent           Category = "rent"
	CategoryUtilities      Category = "utilities"
	CategoryTransportation Category = "transportation"
	CategoryMarketing      Category = "marketing"
	CategoryMaintenance    Category = "maintenance"
	CategoryDepreciation   Category = "depreciation"
	CategoryOtherExpenses  Category = "other_expenses"

	// Equity
	CategoryOwnerCapital  Category = "owner_capital"
	CategoryOwnerDrawings Category = "owner_drawings"

	// Balance-sheet only
	CategoryCustomerAdvance Category = "customer_advance"
	CategorySupplierAdvance Category = "supplier_advance"
	CategoryLoanGiven       Category = "loan_given"
	CategoryLoanReceived    Category = "loan_received"
	CategoryFixedAssets     Category = "fixed_assets"

	// CategoryUnmapped is the explicit fallback for text no known category matches.
	CategoryUnmapped Category = "unmapped"
)

// categoryAliases maps normalized caller text to categories. Arabic labels are the
// ones used by the bookkeeping front end; English aliases cover API callers.
var categoryAliases = map[string]Category{
	"مبيعات":          CategorySales,
	"sales":           CategorySales,
	"خدمات":           CategoryServices,
	"services":        CategoryServices,
	"إيرادات أخرى":    CategoryOtherIncome,
	"other_income":    CategoryOtherIncome,
	"مشتريات":         CategoryPurchases,
	"purchases":       CategoryPurchases,
	"رواتب":           CategorySalaries,
	"salaries":        CategorySalaries,
	"إيجار":           CategoryRent,
	"rent":            CategoryRent,
	"مرافق":           CategoryUtilities,
	"utilities":       CategoryUtilities,
	"مواصلات":         CategoryTransportation,
	"transportation":  CategoryTransportation,
	"تسويق":           CategoryMarketing,
	"marketing":       CategoryMarketing,
	"صيانة":           CategoryMaintenance,
	"maintenance":     CategoryMaintenance,
	"إهلاك":           CategoryDepreciation,
	"depreciation":    CategoryDepreciation,
	"مصروفات أخرى":    CategoryOtherExpenses,
	"other_expenses":  CategoryOtherExpenses,
	"رأس المال":       CategoryOwnerCapital,
	"owner_capital":   CategoryOwnerCapital,
	"سحوبات المالك":   CategoryOwnerDrawings,
	"owner_drawings":  CategoryOwnerDrawings,
	"سلفة عميل":       CategoryCustomerAdvance,
	"customer_advance": CategoryCustomerAdvance,
	"سلفة مورد":       CategorySupplierAdvance,
	"supplier_advance": CategorySupplierAdvance,
	"قرض ممنوح":       CategoryLoanGiven,
	"loan_given":      CategoryLoanGiven,
	"قرض مستلم":       CategoryLoanReceived,
	"loan_received":   CategoryLoanReceived,
	"أصول ثابتة":      CategoryFixedAssets,
	"fixed_assets":    CategoryFixedAssets,
}

// ParseCategory resolves caller text to a Category. Unknown text yields CategoryUnmapped.
func ParseCategory(raw string) Category {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryUnmapped
}

// IsEquity reports owner capital movements.
func (c Category) IsEquity() bool {
	return c == CategoryOwnerCapital || c == CategoryOwnerDrawings
}

// IsAdvance reports customer or supplier advances.
func (c Category) IsAdvance() bool {
	return c == CategoryCustomerAdvance || c == CategorySupplierAdvance
}

// IsLoan reports loans given or received.
func (c Category) IsLoan() bool {
	return c == CategoryLoanGiven || c == CategoryLoanReceived
}

// LoanPhase distinguishes the initial loan movement from its settlement.
type LoanPhase string

const (
	LoanInitial    LoanPhase = "initial"    // disbursement of a given loan / receipt of a received loan
	LoanSettlement LoanPhase = "settlement" // collection of a given loan / repayment of a received loan
)

var loanSettlementAliases = map[string]struct{}{
	"تحصيل قرض":  {},
	"سداد قرض":   {},
	"collection": {},
	"repayment":  {},
	"settlement": {},
}

// ParseLoanPhase reads the loan phase from a subcategory. Anything that is not a
// collection/repayment label is treated as the initial movement.
func ParseLoanPhase(subCategory string) LoanPhase {
	key := strings.ToLower(strings.TrimSpace(subCategory))
	if _, ok := loanSettlementAliases[key]; ok {
		return LoanSettlement
	}
	return LoanInitial
}
