package services

import (
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/platform/config"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	options := []ServiceOption{WithConflictRetryLimit(cfg.ConflictRetryLimit)}

	// One mapper so unmapped categories are counted across every posting.
	mapper := accounting.NewMapper()

	return &portssvc.ServiceContainer{
		LedgerEntry: NewLedgerEntryService(repos.LedgerEntryRepo, repos.JournalRepo, repos.UnitOfWork, mapper, options...),
		Payment:     NewPaymentService(repos.LedgerEntryRepo, repos.PaymentRepo, repos.UnitOfWork, options...),
		Cheque:      NewChequeService(repos.ChequeRepo, options...),
		Reporting:   NewReportingService(repos.JournalRepo, options...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerEntrySvcFacade = (*ledgerEntryService)(nil)
	_ portssvc.PaymentSvcFacade     = (*paymentService)(nil)
	_ portssvc.ChequeSvcFacade      = (*chequeService)(nil)
	_ portssvc.ReportingService     = (*reportingService)(nil)
)
