package dto

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualAllocationRequest is one caller-chosen share of a payment.
type ManualAllocationRequest struct {
	LedgerRecordID string          `json:"ledgerRecordId" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
}

// CreatePaymentRequest defines the data needed to record a payment.
//
// Exactly one mode applies: LinkedLedgerRecordID for a single target,
// AllocationMethod "fifo" to spread over the client's open entries, or
// AllocationMethod "manual" with Allocations.
type CreatePaymentRequest struct {
	ClientName           string                    `json:"clientName" binding:"required"`
	Amount               decimal.Decimal           `json:"amount"`
	Direction            domain.PaymentDirection   `json:"direction" binding:"required,oneof=receipt disbursement"`
	Date                 time.Time                 `json:"date" binding:"required"`
	Notes                string                    `json:"notes"`
	LinkedLedgerRecordID string                    `json:"linkedLedgerRecordId"`
	AllocationMethod     domain.AllocationMethod   `json:"allocationMethod" binding:"omitempty,oneof=fifo manual"`
	Allocations          []ManualAllocationRequest `json:"allocations" binding:"omitempty,dive"`
}

// PreviewFIFORequest asks how a payment would be spread without recording it.
type PreviewFIFORequest struct {
	ClientName string                  `json:"clientName" binding:"required"`
	Amount     decimal.Decimal         `json:"amount"`
	Direction  domain.PaymentDirection `json:"direction" binding:"required,oneof=receipt disbursement"`
}

// AllocationResponse defines the data returned for a payment allocation.
type AllocationResponse struct {
	AllocationID    string          `json:"allocationId,omitempty"`
	TransactionID   string          `json:"transactionId"`
	LedgerRecordID  string          `json:"ledgerRecordId"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID             string               `json:"paymentId"`
	ClientName            string               `json:"clientName"`
	Amount                decimal.Decimal      `json:"amount"`
	Direction             string               `json:"direction"`
	Date                  time.Time            `json:"date"`
	Notes                 string               `json:"notes"`
	IsMultiAllocation     bool                 `json:"isMultiAllocation"`
	AllocationMethod      string               `json:"allocationMethod,omitempty"`
	AllocationCount       int                  `json:"allocationCount"`
	TotalAllocated        decimal.Decimal      `json:"totalAllocated"`
	UnallocatedAmount     decimal.Decimal      `json:"unallocatedAmount"`
	LinkedTransactionID   string               `json:"linkedTransactionId,omitempty"`
	SettledTransactionIDs []string             `json:"settledTransactionIds"`
	Allocations           []AllocationResponse `json:"allocations,omitempty"`
	CreatedAt             time.Time            `json:"createdAt"`
	CreatedBy             string               `json:"createdBy"`
}

// FIFOPreviewResponse is the result of a FIFO preview.
type FIFOPreviewResponse struct {
	Allocations      []AllocationResponse `json:"allocations"`
	TotalAllocated   decimal.Decimal      `json:"totalAllocated"`
	RemainingPayment decimal.Decimal      `json:"remainingPayment"`
}

// ListPaymentsParams defines query parameters for listing a client's payments.
type ListPaymentsParams struct {
	ClientName string  `form:"client" binding:"required"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAllocationResponses converts allocations to their DTOs.
func ToAllocationResponses(allocations []domain.PaymentAllocation) []AllocationResponse {
	res := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		res[i] = AllocationResponse{
			AllocationID:    a.AllocationID,
			TransactionID:   a.TransactionID,
			LedgerRecordID:  a.LedgerRecordID,
			AllocatedAmount: a.AllocatedAmount,
			TransactionDate: a.TransactionDate,
			Description:     a.Description,
		}
	}
	return res
}

// ToPaymentResponse converts a domain.Payment and its allocations to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment, allocations []domain.PaymentAllocation) PaymentResponse {
	settled := p.SettledTransactionIDs
	if settled == nil {
		settled = []string{}
	}
	return PaymentResponse{
		PaymentID:             p.PaymentID,
		ClientName:            p.ClientName,
		Amount:                p.Amount,
		Direction:             string(p.Direction),
		Date:                  p.Date,
		Notes:                 p.Notes,
		IsMultiAllocation:     p.IsMultiAllocation,
		AllocationMethod:      string(p.AllocationMethod),
		AllocationCount:       p.AllocationCount,
		TotalAllocated:        p.TotalAllocated,
		UnallocatedAmount:     p.UnallocatedAmount,
		LinkedTransactionID:   p.LinkedTransactionID,
		SettledTransactionIDs: settled,
		Allocations:           ToAllocationResponses(allocations),
		CreatedAt:             p.CreatedAt,
		CreatedBy:             p.CreatedBy,
	}
}
