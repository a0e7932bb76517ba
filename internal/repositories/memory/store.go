// Package memory is a Record Store kept in process memory. Units of work are
// optimistic: writes are buffered and the read set is validated at commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_settlement/internal/utils/pagination"
)

// Store holds every collection. The zero value is not usable; call NewStore.
type Store struct {
	mu sync.RWMutex

	entries      map[string]domain.LedgerEntry
	payments     map[string]domain.Payment
	allocations  map[string][]domain.PaymentAllocation // by payment id
	journals     map[string]domain.JournalEntry
	entryNumbers map[string]string // entry number -> journal id
	cheques      map[string]domain.Cheque

	// beforeCommit runs after fn returned and before the commit is validated.
	beforeCommit func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:      make(map[string]domain.LedgerEntry),
		payments:     make(map[string]domain.Payment),
		allocations:  make(map[string][]domain.PaymentAllocation),
		journals:     make(map[string]domain.JournalEntry),
		entryNumbers: make(map[string]string),
		cheques:      make(map[string]domain.Cheque),
	}
}

// SetBeforeCommitHook installs a function that runs between a unit of work's
// body and its commit. Tests use it to interleave a concurrent writer.
func (s *Store) SetBeforeCommitHook(hook func()) {
	s.mu.Lock()
	s.beforeCommit = hook
	s.mu.Unlock()
}

// Provider returns the store wired as every repository.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerEntryRepo: s,
		PaymentRepo:     s,
		JournalRepo:     s,
		ChequeRepo:      s,
		UnitOfWork:      s,
	}
}

var (
	_ portsrepo.LedgerEntryRepositoryFacade = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade     = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ChequeRepositoryFacade      = (*Store)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)

func copyPayment(p domain.Payment) domain.Payment {
	if p.SettledTransactionIDs != nil {
		p.SettledTransactionIDs = append([]string(nil), p.SettledTransactionIDs...)
	}
	return p
}

func copyJournal(j domain.JournalEntry) domain.JournalEntry {
	j.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return j
}

func copyCheque(c domain.Cheque) domain.Cheque {
	if c.EndorseeName != nil {
		name := *c.EndorseeName
		c.EndorseeName = &name
	}
	return c
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}

// FindLedgerEntryByID retrieves a ledger entry by its internal record id.
func (s *Store) FindLedgerEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, notFound("ledger entry", id)
	}
	return &e, nil
}

// FindLedgerEntriesByIDs retrieves the entries that exist among ids.
func (s *Store) FindLedgerEntriesByIDs(ctx context.Context, ids []string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListOpenLedgerEntries returns a client's tracked entries with a positive remaining balance, oldest first.
func (s *Store) ListOpenLedgerEntries(ctx context.Context, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.ClientName == clientName && e.Type == entryType && e.IsARAPEntry && e.RemainingBalance.IsPositive() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}

// page sorts records newest first and cuts the page after the cursor.
func page[T any](items []T, key func(T) (time.Time, string), limit int, nextToken *string) ([]T, *string, error) {
	sort.Slice(items, func(i, j int) bool {
		di, ii := key(items[i])
		dj, ij := key(items[j])
		return pagination.After(dj, ij, di, ii)
	})

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		start := len(items)
		for i, item := range items {
			d, id := key(item)
			if pagination.After(d, id, cursorDate, cursorID) {
				start = i
				break
			}
		}
		items = items[start:]
	}

	if limit <= 0 || len(items) <= limit {
		return items, nil, nil
	}
	items = items[:limit]
	d, id := key(items[limit-1])
	token := pagination.EncodeToken(d, id)
	return items, &token, nil
}

// ListLedgerEntriesByClient retrieves a page of a client's entries, newest first.
func (s *Store) ListLedgerEntriesByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	s.mu.RLock()
	var items []domain.LedgerEntry
	for _, e := range s.entries {
		if e.ClientName == clientName {
			items = append(items, e)
		}
	}
	s.mu.RUnlock()
	return page(items, func(e domain.LedgerEntry) (time.Time, string) { return e.Date, e.ID }, limit, nextToken)
}

// FindPaymentByID retrieves a payment by its id.
func (s *Store) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, notFound("payment", paymentID)
	}
	p = copyPayment(p)
	return &p, nil
}

// FindAllocationsByPaymentID retrieves the allocations of a payment.
func (s *Store) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PaymentAllocation{}, s.allocations[paymentID]...), nil
}

// ListPaymentsByClient retrieves a page of a client's payments, newest first.
func (s *Store) ListPaymentsByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	s.mu.RLock()
	var items []domain.Payment
	for _, p := range s.payments {
		if p.ClientName == clientName {
			items = append(items, copyPayment(p))
		}
	}
	s.mu.RUnlock()
	return page(items, func(p domain.Payment) (time.Time, string) { return p.Date, p.PaymentID }, limit, nextToken)
}

// FindJournalByID retrieves a journal entry and its lines.
func (s *Store) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.journals[journalID]
	if !ok {
		return nil, notFound("journal", journalID)
	}
	j = copyJournal(j)
	return &j, nil
}

// FindJournalsBySource retrieves the journal entries posted for a source record, oldest first.
func (s *Store) FindJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.JournalEntry
	for _, j := range s.journals {
		if j.SourceType == sourceType && j.SourceID == sourceID {
			out = append(out, copyJournal(j))
		}
	}
	sortJournals(out)
	return out, nil
}

// ListJournalEntries retrieves every journal entry dated on or before asOf.
func (s *Store) ListJournalEntries(ctx context.Context, asOf time.Time) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.JournalEntry
	for _, j := range s.journals {
		if !j.Date.After(asOf) {
			out = append(out, copyJournal(j))
		}
	}
	sortJournals(out)
	return out, nil
}

func sortJournals(journals []domain.JournalEntry) {
	sort.Slice(journals, func(i, j int) bool {
		if !journals[i].CreatedAt.Equal(journals[j].CreatedAt) {
			return journals[i].CreatedAt.Before(journals[j].CreatedAt)
		}
		return journals[i].EntryNumber < journals[j].EntryNumber
	})
}

// FindChequeByID retrieves a cheque.
func (s *Store) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cheques[chequeID]
	if !ok {
		return nil, notFound("cheque", chequeID)
	}
	c = copyCheque(c)
	return &c, nil
}

// ListChequesByStatus retrieves a page of cheques in a status, latest due date first.
func (s *Store) ListChequesByStatus(ctx context.Context, status domain.ChequeStatus, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	s.mu.RLock()
	var items []domain.Cheque
	for _, c := range s.cheques {
		if c.Status == status {
			items = append(items, copyCheque(c))
		}
	}
	s.mu.RUnlock()
	return page(items, func(c domain.Cheque) (time.Time, string) { return c.DueDate, c.ChequeID }, limit, nextToken)
}

// SaveCheque persists a new cheque.
func (s *Store) SaveCheque(ctx context.Context, cheque domain.Cheque) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cheques[cheque.ChequeID]; exists {
		return fmt.Errorf("cheque %s: %w", cheque.ChequeID, apperrors.ErrDuplicate)
	}
	s.cheques[cheque.ChequeID] = copyCheque(cheque)
	return nil
}

// UpdateChequeStatus writes cheque if the stored status is still from.
func (s *Store) UpdateChequeStatus(ctx context.Context, cheque domain.Cheque, from domain.ChequeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cheques[cheque.ChequeID]
	if !ok {
		return notFound("cheque", cheque.ChequeID)
	}
	if current.Status != from {
		return fmt.Errorf("%w: cheque %s is %s, expected %s", apperrors.ErrConflict, cheque.ChequeID, current.Status, from)
	}
	s.cheques[cheque.ChequeID] = copyCheque(cheque)
	return nil
}

// DeleteCheque removes a cheque still in expectedStatus.
func (s *Store) DeleteCheque(ctx context.Context, chequeID string, expectedStatus domain.ChequeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cheques[chequeID]
	if !ok {
		return notFound("cheque", chequeID)
	}
	if current.Status != expectedStatus {
		return fmt.Errorf("%w: cheque %s is %s, expected %s", apperrors.ErrConflict, chequeID, current.Status, expectedStatus)
	}
	delete(s.cheques, chequeID)
	return nil
}
