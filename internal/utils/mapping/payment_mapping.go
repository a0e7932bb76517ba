package mapping

import (
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	settled := d.SettledTransactionIDs
	if settled == nil {
		settled = []string{}
	}
	return models.Payment{
		PaymentID:             d.PaymentID,
		ClientName:            d.ClientName,
		Amount:                d.Amount,
		Direction:             string(d.Direction),
		PaymentDate:           d.Date,
		Notes:                 d.Notes,
		IsMultiAllocation:     d.IsMultiAllocation,
		AllocationMethod:      optionalString(string(d.AllocationMethod)),
		AllocationCount:       d.AllocationCount,
		TotalAllocated:        d.TotalAllocated,
		UnallocatedAmount:     d.UnallocatedAmount,
		LinkedTransactionID:   optionalString(d.LinkedTransactionID),
		SettledTransactionIDs: settled,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:             m.PaymentID,
		ClientName:            m.ClientName,
		Amount:                m.Amount,
		Direction:             domain.PaymentDirection(m.Direction),
		Date:                  m.PaymentDate,
		Notes:                 m.Notes,
		IsMultiAllocation:     m.IsMultiAllocation,
		AllocationMethod:      domain.AllocationMethod(derefString(m.AllocationMethod)),
		AllocationCount:       m.AllocationCount,
		TotalAllocated:        m.TotalAllocated,
		UnallocatedAmount:     m.UnallocatedAmount,
		LinkedTransactionID:   derefString(m.LinkedTransactionID),
		SettledTransactionIDs: m.SettledTransactionIDs,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAllocation converts a domain PaymentAllocation to a model PaymentAllocation
func ToModelAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID:    d.AllocationID,
		PaymentID:       d.PaymentID,
		TransactionID:   d.TransactionID,
		LedgerRecordID:  d.LedgerRecordID,
		AllocatedAmount: d.AllocatedAmount,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAllocation converts a model PaymentAllocation to a domain PaymentAllocation
func ToDomainAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID:    m.AllocationID,
		PaymentID:       m.PaymentID,
		TransactionID:   m.TransactionID,
		LedgerRecordID:  m.LedgerRecordID,
		AllocatedAmount: m.AllocatedAmount,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
