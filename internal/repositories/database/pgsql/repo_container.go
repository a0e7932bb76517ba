package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerEntryRepo: newPgxLedgerEntryRepository(dbPool),
		PaymentRepo:     newPgxPaymentRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		ChequeRepo:      newPgxChequeRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWork(dbPool),
	}
}
