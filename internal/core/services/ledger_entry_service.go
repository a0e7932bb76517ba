package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
)

// ServiceOption configures the shared parts of a service.
type ServiceOption func(*BaseService)

// WithClock overrides the clock used for audit fields and entry numbers.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Now = now
	}
}

// WithConflictRetryLimit sets how many times a conflicting unit of work is retried.
func WithConflictRetryLimit(limit int) ServiceOption {
	return func(s *BaseService) {
		s.ConflictRetryLimit = limit
	}
}

func applyOptions(base *BaseService, options []ServiceOption) {
	for _, option := range options {
		option(base)
	}
}

// settlementJournalSources are the journal sources owned by a ledger entry.
var settlementJournalSources = []domain.JournalSourceType{
	domain.SourceLedgerEntry,
	domain.SourceDiscount,
	domain.SourceWriteoff,
}

type ledgerEntryService struct {
	BaseService
	entryRepo   portsrepo.LedgerEntryRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	uow         portsrepo.UnitOfWork
	mapper      *accounting.Mapper
	openEntries singleflight.Group
}

// NewLedgerEntryService creates a new ledger entry service. mapper may be shared
// between services so that unmapped category counts are kept in one place.
func NewLedgerEntryService(
	entryRepo portsrepo.LedgerEntryRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	uow portsrepo.UnitOfWork,
	mapper *accounting.Mapper,
	options ...ServiceOption,
) portssvc.LedgerEntrySvcFacade {
	if mapper == nil {
		mapper = accounting.NewMapper()
	}
	svc := &ledgerEntryService{
		BaseService: newBaseService(),
		entryRepo:   entryRepo,
		journalRepo: journalRepo,
		uow:         uow,
		mapper:      mapper,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.LedgerEntrySvcFacade = (*ledgerEntryService)(nil)

// isARAPEntry reports whether an entry is followed as a receivable or payable.
func isARAPEntry(req dto.CreateLedgerEntryRequest) bool {
	if req.Type == domain.EntryEquity || domain.ParseCategory(req.Category).IsEquity() {
		return false
	}
	return req.IsTracked && !req.IsSettledImmediately
}

func (s *ledgerEntryService) mapEntry(ctx context.Context, req dto.CreateLedgerEntryRequest) domain.AccountMapping {
	if req.Type == domain.EntryExpense && accounting.IsFixedAssetCategory(req.Category) {
		return accounting.CapitalizationMapping(req.IsTracked, req.IsSettledImmediately)
	}
	return s.mapper.Map(s.GetLogger(ctx), accounting.MappingInput{
		Type:                 req.Type,
		Category:             req.Category,
		SubCategory:          req.SubCategory,
		IsTracked:            req.IsTracked,
		IsSettledImmediately: req.IsSettledImmediately,
	})
}

func validateEntryRequest(req dto.CreateLedgerEntryRequest, userID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}
	if !req.Type.IsValid() {
		return apperrors.NewValidationError("Type", "must be one of income, expense, equity")
	}
	if strings.TrimSpace(req.Category) == "" {
		return apperrors.NewValidationError("Category", "is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("Description", "is required")
	}
	if !currency.IsPositive(req.Amount) {
		return apperrors.NewValidationError("Amount", "must be a finite number greater than zero")
	}
	if req.Date.IsZero() {
		return apperrors.NewValidationError("Date", "is required")
	}
	if isARAPEntry(req) && strings.TrimSpace(req.ClientName) == "" {
		return apperrors.NewValidationError("ClientName", "is required for tracked entries")
	}
	return nil
}

// RecordEntry validates, maps and persists an entry together with its journal.
func (s *ledgerEntryService) RecordEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, userID string) (*domain.LedgerEntry, *domain.JournalEntry, error) {
	if err := validateEntryRequest(req, userID); err != nil {
		return nil, nil, err
	}

	mapping := s.mapEntry(ctx, req)
	now := s.now()

	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		transactionID = "TX-" + uuid.NewString()
	}

	entry := domain.LedgerEntry{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Type:          req.Type,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		ClientName:    strings.TrimSpace(req.ClientName),
		Description:   req.Description,
		Date:          req.Date,
		Amount:        req.Amount,
		IsARAPEntry:   isARAPEntry(req),
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	accounting.InitializeSettlement(&entry)

	var journal *domain.JournalEntry
	err := s.atomically(ctx, s.uow, "record_entry", func(ctx context.Context, tx portsrepo.AtomicTx) error {
		if err := tx.CreateLedgerEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}
		var err error
		journal, err = s.postJournal(ctx, tx, journalPosting{
			Mapping:     mapping,
			Amount:      entry.Amount,
			Description: entry.Description,
			Date:        &entry.Date,
			SourceType:  domain.SourceLedgerEntry,
			SourceID:    entry.ID,
			UserID:      userID,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record ledger entry",
			slog.String("transaction_id", transactionID),
			slog.String("type", string(req.Type)),
			slog.String("category", req.Category))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Ledger entry recorded",
		slog.String("entry_id", entry.ID),
		slog.String("transaction_id", entry.TransactionID),
		slog.String("amount", entry.Amount.String()),
		slog.String("payment_status", string(entry.PaymentStatus)),
		slog.Bool("fallback_mapping", mapping.Fallback))
	return &entry, journal, nil
}

// adjustment applies a discount or write-off to one entry.
type adjustment struct {
	op         string
	field      string
	sourceType domain.JournalSourceType
	mapping    func(domain.EntryType) domain.AccountMapping
	apply      func(*domain.LedgerEntry, decimal.Decimal)
}

var (
	discountAdjustment = adjustment{
		op:         "apply_discount",
		field:      "discount",
		sourceType: domain.SourceDiscount,
		mapping:    accounting.DiscountMapping,
		apply:      accounting.ApplyDiscount,
	}
	writeoffAdjustment = adjustment{
		op:         "apply_writeoff",
		field:      "write-off",
		sourceType: domain.SourceWriteoff,
		mapping:    accounting.WriteoffMapping,
		apply:      accounting.ApplyWriteoff,
	}
)

// ApplyDiscount grants a settlement discount on an open entry.
func (s *ledgerEntryService) ApplyDiscount(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string) (*domain.LedgerEntry, error) {
	return s.adjust(ctx, id, req, userID, discountAdjustment)
}

// ApplyWriteoff writes off part or all of an open entry as uncollectible.
func (s *ledgerEntryService) ApplyWriteoff(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string) (*domain.LedgerEntry, error) {
	return s.adjust(ctx, id, req, userID, writeoffAdjustment)
}

func (s *ledgerEntryService) adjust(ctx context.Context, id string, req dto.SettlementAdjustmentRequest, userID string, adj adjustment) (*domain.LedgerEntry, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	amount := currency.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("Amount", "must be a finite number greater than zero")
	}

	var updated domain.LedgerEntry
	err := s.atomically(ctx, s.uow, adj.op, func(ctx context.Context, tx portsrepo.AtomicTx) error {
		entries, err := tx.GetLedgerEntries(ctx, []string{id})
		if err != nil {
			return err
		}
		entry := entries[0]

		if !entry.IsARAPEntry {
			return apperrors.NewValidationError("Amount", fmt.Sprintf("a %s needs an entry tracked for settlement", adj.field))
		}
		if amount.GreaterThan(entry.RemainingBalance) && !currency.Equal(amount, entry.RemainingBalance) {
			return apperrors.NewValidationError("Amount",
				fmt.Sprintf("%s %s exceeds remaining balance %s", adj.field, currency.Format(amount), currency.Format(entry.RemainingBalance)))
		}

		adj.apply(&entry, amount)
		entry.LastUpdatedAt = s.now()
		entry.LastUpdatedBy = userID
		if err := tx.UpdateLedgerSettlement(ctx, entry); err != nil {
			return err
		}

		if _, err := s.postJournal(ctx, tx, journalPosting{
			Mapping:     adj.mapping(entry.Type),
			Amount:      amount,
			Description: req.Description,
			Date:        req.Date,
			SourceType:  adj.sourceType,
			SourceID:    entry.ID,
			UserID:      userID,
		}); err != nil {
			return err
		}

		entry.Version++
		updated = entry
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to adjust ledger entry",
			slog.String("operation", adj.op),
			slog.String("entry_id", id))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry adjusted",
		slog.String("operation", adj.op),
		slog.String("entry_id", id),
		slog.String("amount", amount.String()),
		slog.String("remaining_balance", updated.RemainingBalance.String()),
		slog.String("payment_status", string(updated.PaymentStatus)))
	return &updated, nil
}

// DeleteEntry removes an entry that has no payments, with its journals.
func (s *ledgerEntryService) DeleteEntry(ctx context.Context, id string, userID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}

	err := s.atomically(ctx, s.uow, "delete_entry", func(ctx context.Context, tx portsrepo.AtomicTx) error {
		entries, err := tx.GetLedgerEntries(ctx, []string{id})
		if err != nil {
			return err
		}
		entry := entries[0]

		// Untracked entries are born paid; only payments received later block deletion.
		if entry.IsARAPEntry && currency.IsPositive(entry.TotalPaid) {
			return apperrors.NewValidationError("",
				fmt.Sprintf("entry %s has payments of %s; delete the payments first", entry.TransactionID, currency.Format(entry.TotalPaid)))
		}

		if err := tx.DeleteLedgerEntry(ctx, entry); err != nil {
			return err
		}
		for _, source := range settlementJournalSources {
			if err := tx.DeleteJournalsBySource(ctx, source, entry.ID); err != nil {
				return fmt.Errorf("failed to delete %s journals: %w", source, err)
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete ledger entry", slog.String("entry_id", id))
		return err
	}

	s.LogInfo(ctx, "Ledger entry deleted", slog.String("entry_id", id), slog.String("user_id", userID))
	return nil
}

// GetLedgerEntry retrieves an entry by its record id.
func (s *ledgerEntryService) GetLedgerEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	entry, err := s.entryRepo.FindLedgerEntryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %s: %w", id, err)
	}
	return entry, nil
}

// GetEntryJournals retrieves every journal posted for an entry, oldest first.
func (s *ledgerEntryService) GetEntryJournals(ctx context.Context, id string) ([]domain.JournalEntry, error) {
	if _, err := s.GetLedgerEntry(ctx, id); err != nil {
		return nil, err
	}

	var journals []domain.JournalEntry
	for _, source := range settlementJournalSources {
		found, err := s.journalRepo.FindJournalsBySource(ctx, source, id)
		if err != nil {
			s.LogError(ctx, err, "Failed to get journals for entry",
				slog.String("entry_id", id),
				slog.String("source_type", string(source)))
			return nil, fmt.Errorf("failed to get %s journals: %w", source, err)
		}
		journals = append(journals, found...)
	}

	sort.SliceStable(journals, func(i, j int) bool {
		if !journals[i].CreatedAt.Equal(journals[j].CreatedAt) {
			return journals[i].CreatedAt.Before(journals[j].CreatedAt)
		}
		return journals[i].EntryNumber < journals[j].EntryNumber
	})
	return journals, nil
}

// ListEntries retrieves a page of a client's entries, newest first.
func (s *ledgerEntryService) ListEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	client := strings.TrimSpace(params.ClientName)
	if client == "" {
		return nil, apperrors.NewValidationError("ClientName", "is required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListLedgerEntriesByClient(ctx, client, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("client", client))
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToListLedgerEntryResponse(entries),
		NextToken: nextToken,
	}, nil
}

// ListOpenEntries lists a client's tracked entries that still carry a balance,
// oldest first. Concurrent identical lookups share one query.
func (s *ledgerEntryService) ListOpenEntries(ctx context.Context, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, apperrors.NewValidationError("ClientName", "is required")
	}
	if entryType != domain.EntryIncome && entryType != domain.EntryExpense {
		return nil, apperrors.NewValidationError("Type", "must be income or expense")
	}

	key := clientName + "|" + string(entryType)
	// The shared query must outlive the caller that started it.
	flight := s.openEntries.DoChan(key, func() (interface{}, error) {
		return listOpenEntries(context.WithoutCancel(ctx), s.entryRepo, clientName, entryType)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-flight:
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		s.LogError(ctx, err, "Failed to list open entries",
			slog.String("client", clientName),
			slog.String("type", string(entryType)))
		return nil, err
	}

	entries := v.([]domain.LedgerEntry)
	s.LogDebug(ctx, "Listed open entries",
		slog.String("client", clientName),
		slog.Int("count", len(entries)),
		slog.Bool("shared", shared))

	// Callers may reorder or mutate the slice.
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// listOpenEntries queries a client's open entries outside any unit of work and
// keeps those whose remaining balance is above the tolerance.
func listOpenEntries(ctx context.Context, repo portsrepo.LedgerEntryReader, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error) {
	found, err := repo.ListOpenLedgerEntries(ctx, clientName, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list open entries: %w", err)
	}
	open := make([]domain.LedgerEntry, 0, len(found))
	for _, e := range found {
		if e.IsARAPEntry && e.RemainingBalance.GreaterThan(currency.Tolerance) {
			open = append(open, e)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].Date.Equal(open[j].Date) {
			return open[i].Date.Before(open[j].Date)
		}
		return open[i].TransactionID < open[j].TransactionID
	})
	return open, nil
}
