package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
)

type sourceKey struct {
	sourceType domain.JournalSourceType
	sourceID   string
}

// atomicTx buffers the writes of one unit of work and remembers what it read.
type atomicTx struct {
	store *Store
	wrote bool

	entryVersions map[string]int64 // read set; version as read
	paymentsRead  map[string]bool  // read set; whether the payment existed

	created          []domain.LedgerEntry
	updated          []domain.LedgerEntry
	deletedEntries   []domain.LedgerEntry
	savedPayments    []domain.Payment
	savedAllocations []domain.PaymentAllocation
	deletedPayments  []string
	savedJournals    []domain.JournalEntry
	deletedSources   []sourceKey
}

var _ portsrepo.AtomicTx = (*atomicTx)(nil)

// RunAtomic runs fn against a buffered view of the store and commits its writes
// only if nothing it read has changed in the meantime.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context, tx portsrepo.AtomicTx) error) error {
	tx := &atomicTx{
		store:         s,
		entryVersions: make(map[string]int64),
		paymentsRead:  make(map[string]bool),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.RLock()
	hook := s.beforeCommit
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (t *atomicTx) beforeRead() error {
	if t.wrote {
		return fmt.Errorf("%w: %w", apperrors.ErrInternal, portsrepo.ErrReadAfterWrite)
	}
	return nil
}

// GetLedgerEntries returns the entries in the order of ids and adds them to the read set.
func (t *atomicTx) GetLedgerEntries(ctx context.Context, ids []string) ([]domain.LedgerEntry, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	out := make([]domain.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		e, ok := t.store.entries[id]
		if !ok {
			return nil, notFound("ledger entry", id)
		}
		t.entryVersions[id] = e.Version
		out = append(out, e)
	}
	return out, nil
}

// GetPayment reads a payment and adds it to the read set.
func (t *atomicTx) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	p, ok := t.store.payments[paymentID]
	t.paymentsRead[paymentID] = ok
	if !ok {
		return nil, notFound("payment", paymentID)
	}
	p = copyPayment(p)
	return &p, nil
}

// GetAllocations reads the allocations of a payment. Allocations never change
// while their payment exists, so the payment is what enters the read set.
func (t *atomicTx) GetAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	if err := t.beforeRead(); err != nil {
		return nil, err
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	_, ok := t.store.payments[paymentID]
	t.paymentsRead[paymentID] = ok
	return append([]domain.PaymentAllocation{}, t.store.allocations[paymentID]...), nil
}

func (t *atomicTx) CreateLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	t.created = append(t.created, entry)
	return nil
}

func (t *atomicTx) UpdateLedgerSettlement(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	t.updated = append(t.updated, entry)
	return nil
}

func (t *atomicTx) DeleteLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	t.wrote = true
	t.deletedEntries = append(t.deletedEntries, entry)
	return nil
}

func (t *atomicTx) SavePayment(ctx context.Context, payment domain.Payment) error {
	t.wrote = true
	t.savedPayments = append(t.savedPayments, copyPayment(payment))
	return nil
}

func (t *atomicTx) SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error {
	t.wrote = true
	t.savedAllocations = append(t.savedAllocations, allocations...)
	return nil
}

func (t *atomicTx) DeletePayment(ctx context.Context, paymentID string) error {
	t.wrote = true
	t.deletedPayments = append(t.deletedPayments, paymentID)
	return nil
}

// SaveJournal buffers a journal. An entry number already committed, or already
// used in this unit of work, fails with apperrors.ErrDuplicate.
func (t *atomicTx) SaveJournal(ctx context.Context, journal domain.JournalEntry) error {
	t.wrote = true
	t.store.mu.RLock()
	_, taken := t.store.entryNumbers[journal.EntryNumber]
	t.store.mu.RUnlock()
	for _, j := range t.savedJournals {
		if j.EntryNumber == journal.EntryNumber {
			taken = true
		}
	}
	if taken {
		return fmt.Errorf("journal entry number %s: %w", journal.EntryNumber, apperrors.ErrDuplicate)
	}
	t.savedJournals = append(t.savedJournals, copyJournal(journal))
	return nil
}

func (t *atomicTx) DeleteJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) error {
	t.wrote = true
	t.deletedSources = append(t.deletedSources, sourceKey{sourceType: sourceType, sourceID: sourceID})
	return nil
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrConflict, fmt.Sprintf(format, args...))
}

// validate checks the read set and the buffered writes against the committed
// state. The caller holds the write lock.
func (s *Store) validate(tx *atomicTx) error {
	for id, version := range tx.entryVersions {
		current, ok := s.entries[id]
		if !ok {
			return conflict("ledger entry %s was deleted", id)
		}
		if current.Version != version {
			return conflict("ledger entry %s changed from version %d to %d", id, version, current.Version)
		}
	}
	for id, existed := range tx.paymentsRead {
		if _, ok := s.payments[id]; ok != existed {
			return conflict("payment %s changed", id)
		}
	}

	for _, e := range tx.created {
		if _, exists := s.entries[e.ID]; exists {
			return fmt.Errorf("ledger entry %s: %w", e.ID, apperrors.ErrDuplicate)
		}
	}
	for _, e := range tx.updated {
		current, ok := s.entries[e.ID]
		if !ok {
			return conflict("ledger entry %s was deleted", e.ID)
		}
		if current.Version != e.Version {
			return conflict("ledger entry %s changed from version %d to %d", e.ID, e.Version, current.Version)
		}
	}
	for _, e := range tx.deletedEntries {
		current, ok := s.entries[e.ID]
		if !ok || current.Version != e.Version {
			return conflict("ledger entry %s changed before delete", e.ID)
		}
	}
	for _, p := range tx.savedPayments {
		if _, exists := s.payments[p.PaymentID]; exists {
			return fmt.Errorf("payment %s: %w", p.PaymentID, apperrors.ErrDuplicate)
		}
	}
	for _, j := range tx.savedJournals {
		if _, taken := s.entryNumbers[j.EntryNumber]; taken {
			return conflict("journal entry number %s was taken", j.EntryNumber)
		}
	}
	return nil
}

func (s *Store) commit(tx *atomicTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(tx); err != nil {
		return err
	}

	for _, e := range tx.created {
		s.entries[e.ID] = e
	}
	for _, e := range tx.updated {
		e.Version++
		s.entries[e.ID] = e
	}
	for _, e := range tx.deletedEntries {
		delete(s.entries, e.ID)
	}
	for _, p := range tx.savedPayments {
		s.payments[p.PaymentID] = p
	}
	for _, a := range tx.savedAllocations {
		s.allocations[a.PaymentID] = append(s.allocations[a.PaymentID], a)
	}
	for _, id := range tx.deletedPayments {
		delete(s.payments, id)
		delete(s.allocations, id)
	}
	for _, src := range tx.deletedSources {
		for id, j := range s.journals {
			if j.SourceType == src.sourceType && j.SourceID == src.sourceID {
				delete(s.entryNumbers, j.EntryNumber)
				delete(s.journals, id)
			}
		}
	}
	for _, j := range tx.savedJournals {
		s.journals[j.JournalID] = j
		s.entryNumbers[j.EntryNumber] = j.JournalID
	}
	return nil
}
