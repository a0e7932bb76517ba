package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cheque is a row of cheques.
type Cheque struct {
	ChequeID       string          `db:"cheque_id"`
	ChequeNumber   string          `db:"cheque_number"`
	ClientName     string          `db:"client_name"`
	Status         string          `db:"status"`
	Direction      string          `db:"direction"`
	AccountingType string          `db:"accounting_type"`
	Amount         decimal.Decimal `db:"amount"`
	BankName       string          `db:"bank_name"`
	DueDate        time.Time       `db:"due_date"`
	EndorseeName   *string         `db:"endorsee_name"` // Nullable
	AuditFields
}
