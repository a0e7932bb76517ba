package mapping

import (
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		ID:               d.ID,
		TransactionID:    d.TransactionID,
		EntryType:        string(d.Type),
		Category:         d.Category,
		SubCategory:      d.SubCategory,
		ClientName:       d.ClientName,
		Description:      d.Description,
		EntryDate:        d.Date,
		Amount:           d.Amount,
		TotalPaid:        d.TotalPaid,
		TotalDiscount:    d.TotalDiscount,
		WriteoffAmount:   d.WriteoffAmount,
		RemainingBalance: d.RemainingBalance,
		PaymentStatus:    string(d.PaymentStatus),
		IsARAPEntry:      d.IsARAPEntry,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:               m.ID,
		TransactionID:    m.TransactionID,
		Type:             domain.EntryType(m.EntryType),
		Category:         m.Category,
		SubCategory:      m.SubCategory,
		ClientName:       m.ClientName,
		Description:      m.Description,
		Date:             m.EntryDate,
		Amount:           m.Amount,
		TotalPaid:        m.TotalPaid,
		TotalDiscount:    m.TotalDiscount,
		WriteoffAmount:   m.WriteoffAmount,
		RemainingBalance: m.RemainingBalance,
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		IsARAPEntry:      m.IsARAPEntry,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
