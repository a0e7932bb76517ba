package dto

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest defines the data needed to record a transaction.
type CreateLedgerEntryRequest struct {
	TransactionID        string           `json:"transactionId"` // Optional, generated when empty
	Type                 domain.EntryType `json:"type" binding:"required,oneof=income expense equity"`
	Category             string           `json:"category" binding:"required"`
	SubCategory          string           `json:"subCategory"`
	ClientName           string           `json:"clientName"`
	Description          string           `json:"description" binding:"required"`
	Amount               decimal.Decimal  `json:"amount"`
	Date                 time.Time        `json:"date" binding:"required"`
	IsTracked            bool             `json:"isTracked"`            // Follow as receivable/payable
	IsSettledImmediately bool             `json:"isSettledImmediately"` // Cash moved at recording time
}

// SettlementAdjustmentRequest defines a discount or write-off on a ledger entry.
type SettlementAdjustmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required"`
	Date        *time.Time      `json:"date"` // Optional, defaults to now
}

// ListOpenEntriesParams defines query parameters for listing open entries.
type ListOpenEntriesParams struct {
	ClientName string `form:"client" binding:"required"`
	Type       string `form:"type,default=income" binding:"oneof=income expense"`
}

// ListLedgerEntriesParams defines query parameters for listing a client's entries.
type ListLedgerEntriesParams struct {
	ClientName string  `form:"client" binding:"required"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// ListLedgerEntriesResponse wraps a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	ID               string          `json:"id"`
	TransactionID    string          `json:"transactionId"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	SubCategory      string          `json:"subCategory"`
	ClientName       string          `json:"clientName"`
	Description      string          `json:"description"`
	Date             time.Time       `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	WriteoffAmount   decimal.Decimal `json:"writeoffAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentStatus    string          `json:"paymentStatus"`
	IsARAPEntry      bool            `json:"isARAPEntry"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:               e.ID,
		TransactionID:    e.TransactionID,
		Type:             string(e.Type),
		Category:         e.Category,
		SubCategory:      e.SubCategory,
		ClientName:       e.ClientName,
		Description:      e.Description,
		Date:             e.Date,
		Amount:           e.Amount,
		TotalPaid:        e.TotalPaid,
		TotalDiscount:    e.TotalDiscount,
		WriteoffAmount:   e.WriteoffAmount,
		RemainingBalance: e.RemainingBalance,
		PaymentStatus:    string(e.PaymentStatus),
		IsARAPEntry:      e.IsARAPEntry,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
		LastUpdatedAt:    e.LastUpdatedAt,
		LastUpdatedBy:    e.LastUpdatedBy,
	}
}

// ToListLedgerEntryResponse converts a slice of domain.LedgerEntry.
func ToListLedgerEntryResponse(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}

// RecordEntryResponse is returned after recording an entry: the entry and the journal posted for it.
type RecordEntryResponse struct {
	Entry   LedgerEntryResponse `json:"entry"`
	Journal JournalResponse     `json:"journal"`
}
