package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of payments.
type Payment struct {
	PaymentID             string          `db:"payment_id"`
	ClientName            string          `db:"client_name"`
	Amount                decimal.Decimal `db:"amount"`
	Direction             string          `db:"direction"`
	PaymentDate           time.Time       `db:"payment_date"`
	Notes                 string          `db:"notes"`
	IsMultiAllocation     bool            `db:"is_multi_allocation"`
	AllocationMethod      *string         `db:"allocation_method"` // Nullable
	AllocationCount       int             `db:"allocation_count"`
	TotalAllocated        decimal.Decimal `db:"total_allocated"`
	UnallocatedAmount     decimal.Decimal `db:"unallocated_amount"`
	LinkedTransactionID   *string         `db:"linked_transaction_id"` // Nullable
	SettledTransactionIDs []string        `db:"settled_transaction_ids"`
	AuditFields
}

// PaymentAllocation is a row of payment_allocations.
type PaymentAllocation struct {
	AllocationID    string          `db:"allocation_id"`
	PaymentID       string          `db:"payment_id"`
	TransactionID   string          `db:"transaction_id"`
	LedgerRecordID  string          `db:"ledger_record_id"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	Description     string          `db:"description"`
	AuditFields
}
