package domain

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ChequeStatus is the lifecycle state of a cheque.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "pending"
	ChequeCashed    ChequeStatus = "cashed"
	ChequeEndorsed  ChequeStatus = "endorsed"
	ChequeBounced   ChequeStatus = "bounced"
	ChequeReturned  ChequeStatus = "returned"
	ChequeCollected ChequeStatus = "collected"
	ChequeCancelled ChequeStatus = "cancelled"

	// ChequeDeleted is a pseudo-state used to express deletion as a transition.
	ChequeDeleted ChequeStatus = "deleted"
)

// ChequeDirection tells whether the cheque was received or issued.
type ChequeDirection string

const (
	ChequeIncoming ChequeDirection = "incoming"
	ChequeOutgoing ChequeDirection = "outgoing"
)

// ChequeAccountingType is how the cheque was booked when it was recorded.
type ChequeAccountingType string

const (
	ChequeAccountingCashed    ChequeAccountingType = "cashed"
	ChequeAccountingPostponed ChequeAccountingType = "postponed"
	ChequeAccountingEndorsed  ChequeAccountingType = "endorsed"
)

// Cheque is a received or issued cheque. Status changes only through the
// transition table below.
type Cheque struct {
	ChequeID       string               `json:"chequeId"`
	ChequeNumber   string               `json:"chequeNumber"`
	ClientName     string               `json:"clientName"`
	Status         ChequeStatus         `json:"status"`
	Direction      ChequeDirection      `json:"direction"`
	AccountingType ChequeAccountingType `json:"accountingType"`
	Amount         decimal.Decimal      `json:"amount"`
	BankName       string               `json:"bankName"`
	DueDate        time.Time            `json:"dueDate"`
	EndorseeName   *string              `json:"endorseeName,omitempty"`
	AuditFields
}

// chequeTransitions lists, per state, the states it may move to. Order is the
// order returned to callers.
//   - a cashed cheque cannot be endorsed: the money is already received
//   - an endorsed cheque has left custody and is terminal
//   - a bounced cheque cannot be re-cashed
//   - deletion only from pending, nothing financial has happened yet
var chequeTransitions = map[ChequeStatus][]ChequeStatus{
	ChequePending:   {ChequeCashed, ChequeEndorsed, ChequeBounced, ChequeReturned, ChequeCancelled, ChequeDeleted},
	ChequeCashed:    {ChequeBounced, ChequeReturned, ChequePending},
	ChequeCollected: {ChequeBounced, ChequeReturned},
	ChequeEndorsed:  {},
	ChequeBounced:   {},
	ChequeReturned:  {},
	ChequeCancelled: {},
}

// IsValid reports whether s is a real (non pseudo) cheque status.
func (s ChequeStatus) IsValid() bool {
	_, ok := chequeTransitions[s]
	return ok
}

// CanTransition reports whether a cheque in from may move to to.
func CanTransition(from, to ChequeStatus) bool {
	for _, allowed := range chequeTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanDelete reports whether a cheque in status may be deleted.
func CanDelete(status ChequeStatus) bool {
	return CanTransition(status, ChequeDeleted)
}

// ValidateTransition is CanTransition returning a typed error.
func ValidateTransition(from, to ChequeStatus) error {
	if !CanTransition(from, to) {
		return &apperrors.InvalidChequeTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// ValidateDeletion is CanDelete returning a typed error.
func ValidateDeletion(status ChequeStatus) error {
	if !CanDelete(status) {
		return &apperrors.InvalidChequeTransitionError{From: string(status), To: string(ChequeDeleted)}
	}
	return nil
}

// ValidTransitions returns the states reachable from status. The result is a copy.
func ValidTransitions(status ChequeStatus) []ChequeStatus {
	allowed := chequeTransitions[status]
	out := make([]ChequeStatus, len(allowed))
	copy(out, allowed)
	return out
}
