package accounting

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// JournalInput is what every journal posting is validated against before any
// state is touched.
type JournalInput struct {
	UserID      string          `validate:"required"`
	Description string          `validate:"required"`
	Amount      decimal.Decimal `validate:"gt=0"`
	// Date is optional; when set it must be a real date.
	Date *time.Time `validate:"omitempty,journaldate"`
}

var journalValidator = newJournalValidator()

func newJournalValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Amounts are validated as float64 so numeric tags apply to decimals.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("journaldate", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.IsZero() && t.Year() >= 1900 && t.Year() <= 9999
	})
	return v
}

var validationMessages = map[string]string{
	"UserID":      "is required",
	"Description": "is required",
	"Amount":      "must be a finite number greater than zero",
	"Date":        "is not a valid date",
}

// ValidateJournalInput returns a *apperrors.ValidationError for the first failing field.
func ValidateJournalInput(in JournalInput) error {
	err := journalValidator.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return apperrors.NewValidationError(field, validationMessages[field])
	}
	return apperrors.NewValidationError("", err.Error())
}

// BuildJournalLines turns a mapping and an amount into one debit and one credit
// line. The amount is rounded once and used on both sides, so the result
// balances by construction.
func BuildJournalLines(mapping domain.AccountMapping, amount decimal.Decimal) ([]domain.JournalLine, error) {
	if mapping.DebitAccount == "" || mapping.CreditAccount == "" {
		return nil, apperrors.NewValidationError("Mapping", "needs both a debit and a credit account")
	}
	rounded := currency.Round(amount)
	if !rounded.IsPositive() {
		return nil, apperrors.NewValidationError("Amount", validationMessages["Amount"])
	}

	return []domain.JournalLine{
		{
			AccountCode:          mapping.DebitAccount,
			AccountNameLocalized: mapping.DebitAccountName,
			Debit:                rounded,
			Credit:               decimal.Zero,
		},
		{
			AccountCode:          mapping.CreditAccount,
			AccountNameLocalized: mapping.CreditAccountName,
			Debit:                decimal.Zero,
			Credit:               rounded,
		},
	}, nil
}

// BuildJournalEntry validates the input and assembles a complete journal entry
// for a source record. The caller assigns the id before persisting.
func BuildJournalEntry(in JournalInput, mapping domain.AccountMapping, sourceType domain.JournalSourceType, sourceID string, now time.Time) (*domain.JournalEntry, error) {
	if err := ValidateJournalInput(in); err != nil {
		return nil, err
	}
	lines, err := BuildJournalLines(mapping, in.Amount)
	if err != nil {
		return nil, err
	}
	if err := ValidateJournalBalance(lines); err != nil {
		// Unreachable unless BuildJournalLines is broken.
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	date := now
	if in.Date != nil {
		date = *in.Date
	}

	return &domain.JournalEntry{
		EntryNumber: EntryNumber(now),
		Date:        date,
		Description: in.Description,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     in.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: in.UserID,
		},
	}, nil
}

// EntryNumber returns JE-YYYYMMDD-HHMMSS-RRR for t. The random suffix makes a
// same-second collision unlikely but not impossible; uniqueness is enforced by
// the record store.
func EntryNumber(t time.Time) string {
	return fmt.Sprintf("JE-%s-%03d", t.UTC().Format("20060102-150405"), rand.Intn(1000))
}

// TrialBalanceTotals sums the debit and credit sides of a set of journal entries.
func TrialBalanceTotals(entries []domain.JournalEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debits = debits.Add(e.TotalDebits())
		credits = credits.Add(e.TotalCredits())
	}
	return debits, credits
}
