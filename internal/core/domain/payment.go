package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDirection tells whether money came in or went out.
type PaymentDirection string

const (
	Receipt      PaymentDirection = "receipt"      // settles income (accounts receivable)
	Disbursement PaymentDirection = "disbursement" // settles expenses (accounts payable)
)

// SettlesEntryType returns the ledger entry type a payment in this direction settles.
func (d PaymentDirection) SettlesEntryType() EntryType {
	if d == Disbursement {
		return EntryExpense
	}
	return EntryIncome
}

// AllocationMethod is how a multi-allocation payment was split.
type AllocationMethod string

const (
	AllocationFIFO   AllocationMethod = "fifo"
	AllocationManual AllocationMethod = "manual"
)

// Payment is a lump receipt or disbursement from/to a client.
type Payment struct {
	PaymentID         string           `json:"paymentId"`
	ClientName        string           `json:"clientName"`
	Amount            decimal.Decimal  `json:"amount"`
	Direction         PaymentDirection `json:"direction"`
	Date              time.Time        `json:"date"`
	Notes             string           `json:"notes"`
	IsMultiAllocation bool             `json:"isMultiAllocation"`
	AllocationMethod  AllocationMethod `json:"allocationMethod,omitempty"`
	AllocationCount   int              `json:"allocationCount"`
	TotalAllocated    decimal.Decimal  `json:"totalAllocated"`
	// UnallocatedAmount is the overpayment left after allocation. It is reported, never discarded.
	UnallocatedAmount decimal.Decimal `json:"unallocatedAmount"`
	// LinkedTransactionID is set in single-target mode.
	LinkedTransactionID string `json:"linkedTransactionId,omitempty"`
	// SettledTransactionIDs lists every transaction the payment touched, for traceability.
	SettledTransactionIDs []string `json:"settledTransactionIds"`
	AuditFields
}

// PaymentAllocation is the part of a payment applied to one ledger entry.
type PaymentAllocation struct {
	AllocationID    string          `json:"allocationId"`
	PaymentID       string          `json:"paymentId"`
	TransactionID   string          `json:"transactionId"`
	LedgerRecordID  string          `json:"ledgerRecordId"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	AuditFields
}
