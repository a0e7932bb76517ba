package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/core/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/repositories/memory"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

// ledgerFixture wires the real services to an in-memory store.
type ledgerFixture struct {
	store    *memory.Store
	mapper   *accounting.Mapper
	entries  portssvc.LedgerEntrySvcFacade
	payments portssvc.PaymentSvcFacade
	reports  portssvc.ReportingService
	ctx      context.Context
}

func newLedgerFixture(retryLimit int) *ledgerFixture {
	store := memory.NewStore()
	repos := store.Provider()
	mapper := accounting.NewMapper()
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	options := []services.ServiceOption{
		services.WithClock(func() time.Time { return clock }),
		services.WithConflictRetryLimit(retryLimit),
	}
	return &ledgerFixture{
		store:    store,
		mapper:   mapper,
		entries:  services.NewLedgerEntryService(repos.LedgerEntryRepo, repos.JournalRepo, repos.UnitOfWork, mapper, options...),
		payments: services.NewPaymentService(repos.LedgerEntryRepo, repos.PaymentRepo, repos.UnitOfWork, options...),
		reports:  services.NewReportingService(repos.JournalRepo, options...),
		ctx:      context.Background(),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

// recordInvoice records a tracked, unpaid income entry for client acme.
func (f *ledgerFixture) recordInvoice(t *testing.T, d int, amount string) domain.LedgerEntry {
	t.Helper()
	return f.record(t, dto.CreateLedgerEntryRequest{
		Type:        domain.EntryIncome,
		Category:    "مبيعات",
		ClientName:  "acme",
		Description: "invoice",
		Amount:      dec(amount),
		Date:        day(d),
		IsTracked:   true,
	})
}

func (f *ledgerFixture) record(t *testing.T, req dto.CreateLedgerEntryRequest) domain.LedgerEntry {
	t.Helper()
	entry, _, err := f.entries.RecordEntry(f.ctx, req, testUser)
	require.NoError(t, err)
	return *entry
}

func (f *ledgerFixture) reload(t *testing.T, id string) domain.LedgerEntry {
	t.Helper()
	entry, err := f.entries.GetLedgerEntry(f.ctx, id)
	require.NoError(t, err)
	return *entry
}

// touch bumps an entry's version without changing its numbers, as a
// concurrent writer would.
func (f *ledgerFixture) touch(t *testing.T, id string) {
	t.Helper()
	err := f.store.RunAtomic(f.ctx, func(ctx context.Context, tx portsrepo.AtomicTx) error {
		entries, err := tx.GetLedgerEntries(ctx, []string{id})
		if err != nil {
			return err
		}
		return tx.UpdateLedgerSettlement(ctx, entries[0])
	})
	require.NoError(t, err)
}

// interleaveOnce makes the next unit of work lose its optimistic check on id.
func (f *ledgerFixture) interleaveOnce(t *testing.T, id string) {
	f.store.SetBeforeCommitHook(func() {
		f.store.SetBeforeCommitHook(nil)
		f.touch(t, id)
	})
}

// interleaveAlways makes every unit of work lose its optimistic check on id.
func (f *ledgerFixture) interleaveAlways(t *testing.T, id string) {
	var hook func()
	hook = func() {
		f.store.SetBeforeCommitHook(nil)
		f.touch(t, id)
		f.store.SetBeforeCommitHook(hook)
	}
	f.store.SetBeforeCommitHook(hook)
}

type settlementSnapshot struct {
	totalPaid string
	remaining string
	status    domain.PaymentStatus
}

func snapshotOf(e domain.LedgerEntry) settlementSnapshot {
	return settlementSnapshot{
		totalPaid: e.TotalPaid.StringFixed(2),
		remaining: e.RemainingBalance.StringFixed(2),
		status:    e.PaymentStatus,
	}
}
