package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is an entry of the fixed chart of accounts.
type Account struct {
	Code          string      `json:"code"`          // Numeric code, range determines the type
	Name          string      `json:"name"`          // English name
	NameLocalized string      `json:"nameLocalized"` // Arabic display name
	AccountType   AccountType `json:"accountType"`
}

// AccountMapping is the debit/credit account pair produced for one business event.
// It is a value object and never persisted.
type AccountMapping struct {
	DebitAccount      string `json:"debitAccount"`
	CreditAccount     string `json:"creditAccount"`
	DebitAccountName  string `json:"debitAccountName"`
	CreditAccountName string `json:"creditAccountName"`
	// Fallback is set when the category was unknown and a default account was used.
	Fallback bool `json:"fallback,omitempty"`
}
