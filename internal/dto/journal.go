package dto

import (
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	AccountCode          string          `json:"accountCode"`
	AccountNameLocalized string          `json:"accountNameLocalized"`
	Debit                decimal.Decimal `json:"debit"`
	Credit               decimal.Decimal `json:"credit"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID   string                `json:"journalId"`
	EntryNumber string                `json:"entryNumber"`
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	SourceType  string                `json:"sourceType"`
	SourceID    string                `json:"sourceId"`
	Lines       []JournalLineResponse `json:"lines"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	if j == nil {
		return JournalResponse{}
	}
	lines := make([]JournalLineResponse, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = JournalLineResponse{
			AccountCode:          l.AccountCode,
			AccountNameLocalized: l.AccountNameLocalized,
			Debit:                l.Debit,
			Credit:               l.Credit,
		}
	}
	return JournalResponse{
		JournalID:   j.JournalID,
		EntryNumber: j.EntryNumber,
		Date:        j.Date,
		Description: j.Description,
		SourceType:  string(j.SourceType),
		SourceID:    j.SourceID,
		Lines:       lines,
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
}

// ToJournalResponses converts a slice of domain.JournalEntry.
func ToJournalResponses(journals []domain.JournalEntry) []JournalResponse {
	res := make([]JournalResponse, len(journals))
	for i := range journals {
		res[i] = ToJournalResponse(&journals[i])
	}
	return res
}
