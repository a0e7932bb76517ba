package mapping

import (
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/models"
)

// ToModelCheque converts a domain Cheque to a model Cheque
func ToModelCheque(d domain.Cheque) models.Cheque {
	return models.Cheque{
		ChequeID:       d.ChequeID,
		ChequeNumber:   d.ChequeNumber,
		ClientName:     d.ClientName,
		Status:         string(d.Status),
		Direction:      string(d.Direction),
		AccountingType: string(d.AccountingType),
		Amount:         d.Amount,
		BankName:       d.BankName,
		DueDate:        d.DueDate,
		EndorseeName:   d.EndorseeName,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCheque converts a model Cheque to a domain Cheque
func ToDomainCheque(m models.Cheque) domain.Cheque {
	return domain.Cheque{
		ChequeID:       m.ChequeID,
		ChequeNumber:   m.ChequeNumber,
		ClientName:     m.ClientName,
		Status:         domain.ChequeStatus(m.Status),
		Direction:      domain.ChequeDirection(m.Direction),
		AccountingType: domain.ChequeAccountingType(m.AccountingType),
		Amount:         m.Amount,
		BankName:       m.BankName,
		DueDate:        m.DueDate,
		EndorseeName:   m.EndorseeName,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
