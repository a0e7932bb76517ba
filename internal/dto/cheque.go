package dto

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateChequeRequest defines the data needed to register a cheque.
type CreateChequeRequest struct {
	ChequeNumber   string                      `json:"chequeNumber" binding:"required"`
	ClientName     string                      `json:"clientName" binding:"required"`
	Direction      domain.ChequeDirection      `json:"direction" binding:"required,oneof=incoming outgoing"`
	AccountingType domain.ChequeAccountingType `json:"accountingType" binding:"required,oneof=cashed postponed endorsed"`
	Amount         decimal.Decimal             `json:"amount"`
	BankName       string                      `json:"bankName" binding:"required"`
	DueDate        time.Time                   `json:"dueDate" binding:"required"`
}

// TransitionChequeRequest asks to move a cheque to a new status.
type TransitionChequeRequest struct {
	Status       domain.ChequeStatus `json:"status" binding:"required"`
	EndorseeName *string             `json:"endorseeName"` // Required when Status is endorsed
}

// ChequeResponse defines the data returned for a cheque.
type ChequeResponse struct {
	ChequeID         string          `json:"chequeId"`
	ChequeNumber     string          `json:"chequeNumber"`
	ClientName       string          `json:"clientName"`
	Status           string          `json:"status"`
	Direction        string          `json:"direction"`
	AccountingType   string          `json:"accountingType"`
	Amount           decimal.Decimal `json:"amount"`
	BankName         string          `json:"bankName"`
	DueDate          time.Time       `json:"dueDate"`
	EndorseeName     *string         `json:"endorseeName,omitempty"`
	ValidTransitions []string        `json:"validTransitions"` // Actions currently legal
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// ToChequeResponse converts a domain.Cheque to ChequeResponse DTO.
func ToChequeResponse(c *domain.Cheque) ChequeResponse {
	allowed := domain.ValidTransitions(c.Status)
	transitions := make([]string, len(allowed))
	for i, s := range allowed {
		transitions[i] = string(s)
	}
	return ChequeResponse{
		ChequeID:         c.ChequeID,
		ChequeNumber:     c.ChequeNumber,
		ClientName:       c.ClientName,
		Status:           string(c.Status),
		Direction:        string(c.Direction),
		AccountingType:   string(c.AccountingType),
		Amount:           c.Amount,
		BankName:         c.BankName,
		DueDate:          c.DueDate,
		EndorseeName:     c.EndorseeName,
		ValidTransitions: transitions,
		CreatedAt:        c.CreatedAt,
		CreatedBy:        c.CreatedBy,
		LastUpdatedAt:    c.LastUpdatedAt,
		LastUpdatedBy:    c.LastUpdatedBy,
	}
}

// ListChequesParams defines query parameters for listing cheques by status.
type ListChequesParams struct {
	Status    domain.ChequeStatus `form:"status,default=pending"`
	Limit     int                 `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string             `form:"nextToken"`
}

// ListChequesResponse wraps a page of cheques.
type ListChequesResponse struct {
	Cheques   []ChequeResponse `json:"cheques"`
	NextToken *string          `json:"nextToken,omitempty"`
}
