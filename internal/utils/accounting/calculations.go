package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the effect of a journal line on its account's
// natural balance.
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	isDebit := line.IsDebit()
	signedAmount := line.Credit
	if isDebit {
		signedAmount = line.Debit
	}

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, line.AccountCode)
	}
	return signedAmount, nil
}

// ValidateJournalBalance checks the structural rules of a journal entry: at least
// two lines, exactly one positive side per line, and equal debit and credit totals.
func ValidateJournalBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal must have at least two lines")
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d on account %s has a negative amount", i, line.AccountCode)
		}
		if line.Debit.IsZero() == line.Credit.IsZero() {
			return fmt.Errorf("line %d on account %s must have exactly one of debit or credit", i, line.AccountCode)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("journal lines do not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return nil
}

// IsTrialBalanceBalanced compares total debits and credits within the accounting tolerance.
func IsTrialBalanceBalanced(debits, credits decimal.Decimal) bool {
	return currency.Equal(debits, credits)
}

// IsBalanceSheetBalanced compares assets with liabilities plus equity within the accounting tolerance.
func IsBalanceSheetBalanced(assets, liabilitiesPlusEquity decimal.Decimal) bool {
	return currency.Equal(assets, liabilitiesPlusEquity)
}

// AccountBalances folds journal lines into per-account natural balances.
// Contra-assets are reported with AdjustedBalance so they can be summed with
// the other assets directly.
func AccountBalances(entries []domain.JournalEntry) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			accountType := AccountTypeFromCode(line.AccountCode)
			if IsContraAsset(line.AccountCode) {
				// A contra-asset carries a credit balance.
				accountType = domain.Liability
			}
			signed, err := CalculateSignedAmount(line, accountType)
			if err != nil {
				return nil, err
			}
			balances[line.AccountCode] = balances[line.AccountCode].Add(signed)
		}
	}
	for code, balance := range balances {
		if IsContraAsset(code) {
			balances[code] = AdjustedBalance(balance, code)
		}
	}
	return balances, nil
}
