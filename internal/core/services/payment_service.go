package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
)

type paymentService struct {
	BaseService
	entryRepo   portsrepo.LedgerEntryRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	uow         portsrepo.UnitOfWork
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	entryRepo portsrepo.LedgerEntryRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	uow portsrepo.UnitOfWork,
	options ...ServiceOption,
) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		BaseService: newBaseService(),
		entryRepo:   entryRepo,
		paymentRepo: paymentRepo,
		uow:         uow,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

type paymentMode int

const (
	modeSingle paymentMode = iota
	modeFIFO
	modeManual
)

func (m paymentMode) String() string {
	switch m {
	case modeFIFO:
		return "fifo"
	case modeManual:
		return "manual"
	}
	return "single"
}

func validatePaymentRequest(req dto.CreatePaymentRequest, userID string) (paymentMode, error) {
	if err := requireUserID(userID); err != nil {
		return 0, err
	}
	if strings.TrimSpace(req.ClientName) == "" {
		return 0, apperrors.NewValidationError("ClientName", "is required")
	}
	if !currency.IsPositive(currency.Round(req.Amount)) {
		return 0, apperrors.NewValidationError("Amount", "must be a finite number greater than zero")
	}
	if req.Direction != domain.Receipt && req.Direction != domain.Disbursement {
		return 0, apperrors.NewValidationError("Direction", "must be receipt or disbursement")
	}
	if req.Date.IsZero() {
		return 0, apperrors.NewValidationError("Date", "is required")
	}

	linked := strings.TrimSpace(req.LinkedLedgerRecordID) != ""
	switch req.AllocationMethod {
	case "":
		if !linked {
			return 0, apperrors.NewValidationError("LinkedLedgerRecordID", "is required when no allocation method is given")
		}
		return modeSingle, nil
	case domain.AllocationFIFO, domain.AllocationManual:
		if linked {
			return 0, apperrors.NewValidationError("LinkedLedgerRecordID", "cannot be combined with an allocation method")
		}
		if req.AllocationMethod == domain.AllocationFIFO {
			if len(req.Allocations) > 0 {
				return 0, apperrors.NewValidationError("Allocations", "are chosen automatically for fifo payments")
			}
			return modeFIFO, nil
		}
		return modeManual, nil
	}
	return 0, apperrors.NewValidationError("AllocationMethod", "must be fifo or manual")
}

// settlementPlan is what one attempt of a payment intends to write.
type settlementPlan struct {
	payment     domain.Payment
	allocations []domain.PaymentAllocation
	entries     []domain.LedgerEntry
}

// CreatePayment records a payment, settles its allocations and posts its journal atomically.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	mode, err := validatePaymentRequest(req, userID)
	if err != nil {
		return nil, nil, err
	}
	req.ClientName = strings.TrimSpace(req.ClientName)
	amount := currency.Round(req.Amount)

	var requested []domain.PaymentAllocation
	if mode == modeManual {
		requested = make([]domain.PaymentAllocation, len(req.Allocations))
		for i, a := range req.Allocations {
			requested[i] = domain.PaymentAllocation{
				LedgerRecordID:  strings.TrimSpace(a.LedgerRecordID),
				AllocatedAmount: currency.Round(a.Amount),
			}
		}
		if err := accounting.ValidateAllocations(amount, requested); err != nil {
			return nil, nil, err
		}
	}

	var plan *settlementPlan
	err = s.retryOnConflict(ctx, "create_payment", func() error {
		var candidateIDs []string
		switch mode {
		case modeSingle:
			candidateIDs = []string{strings.TrimSpace(req.LinkedLedgerRecordID)}
		case modeFIFO:
			// Located outside the unit of work, then re-read inside it.
			open, err := listOpenEntries(ctx, s.entryRepo, req.ClientName, req.Direction.SettlesEntryType())
			if err != nil {
				return err
			}
			if len(open) == 0 {
				return apperrors.NewValidationError("ClientName",
					fmt.Sprintf("client %s has no open %s entries to allocate to", req.ClientName, req.Direction.SettlesEntryType()))
			}
			candidateIDs = make([]string, len(open))
			for i, e := range open {
				candidateIDs[i] = e.ID
			}
		case modeManual:
			candidateIDs = make([]string, len(requested))
			for i, a := range requested {
				candidateIDs[i] = a.LedgerRecordID
			}
		}

		return s.uow.RunAtomic(ctx, func(ctx context.Context, tx portsrepo.AtomicTx) error {
			snapshot, err := tx.GetLedgerEntries(ctx, candidateIDs)
			if err != nil {
				return err
			}
			p, err := s.planSettlement(req, mode, amount, snapshot, requested, userID)
			if err != nil {
				return err
			}
			if err := s.applySettlement(ctx, tx, p); err != nil {
				return err
			}
			plan = p
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create payment",
			slog.String("client", req.ClientName),
			slog.String("direction", string(req.Direction)),
			slog.String("mode", mode.String()),
			slog.String("amount", amount.String()))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Payment created",
		slog.String("payment_id", plan.payment.PaymentID),
		slog.String("mode", mode.String()),
		slog.Int("allocation_count", plan.payment.AllocationCount),
		slog.String("total_allocated", plan.payment.TotalAllocated.String()),
		slog.String("unallocated", plan.payment.UnallocatedAmount.String()))
	if plan.payment.UnallocatedAmount.IsPositive() {
		s.LogWarn(ctx, "Payment exceeds open balances, remainder left unallocated",
			slog.String("payment_id", plan.payment.PaymentID),
			slog.String("unallocated", plan.payment.UnallocatedAmount.String()))
	}
	return &plan.payment, plan.allocations, nil
}

// planSettlement decides the allocations against a fresh snapshot and applies
// them to copies of the entries. Nothing is written.
func (s *paymentService) planSettlement(
	req dto.CreatePaymentRequest,
	mode paymentMode,
	amount decimal.Decimal,
	snapshot []domain.LedgerEntry,
	requested []domain.PaymentAllocation,
	userID string,
) (*settlementPlan, error) {
	settles := req.Direction.SettlesEntryType()
	byID := make(map[string]domain.LedgerEntry, len(snapshot))
	for _, e := range snapshot {
		byID[e.ID] = e
	}

	var allocations []domain.PaymentAllocation
	switch mode {
	case modeSingle:
		entry := snapshot[0]
		allocations = []domain.PaymentAllocation{{
			TransactionID:   entry.TransactionID,
			LedgerRecordID:  entry.ID,
			AllocatedAmount: amount,
			TransactionDate: entry.Date,
			Description:     entry.Description,
		}}
	case modeFIFO:
		allocations = accounting.NonZeroAllocations(accounting.DistributeFIFO(amount, snapshot).Allocations)
		if len(allocations) == 0 {
			return nil, apperrors.NewValidationError("ClientName",
				fmt.Sprintf("client %s has no open %s balance to allocate to", req.ClientName, settles))
		}
	case modeManual:
		allocations = make([]domain.PaymentAllocation, 0, len(requested))
		for _, r := range requested {
			if r.AllocatedAmount.IsZero() {
				continue
			}
			entry := byID[r.LedgerRecordID]
			allocations = append(allocations, domain.PaymentAllocation{
				TransactionID:   entry.TransactionID,
				LedgerRecordID:  entry.ID,
				AllocatedAmount: r.AllocatedAmount,
				TransactionDate: entry.Date,
				Description:     entry.Description,
			})
		}
	}

	now := s.now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	paymentID := uuid.NewString()

	entries := make([]domain.LedgerEntry, 0, len(allocations))
	settled := make([]string, 0, len(allocations))
	for i := range allocations {
		entry := byID[allocations[i].LedgerRecordID]
		if entry.ClientName != req.ClientName {
			return nil, apperrors.NewValidationError("allocations",
				fmt.Sprintf("record %s belongs to client %q, not %q", entry.ID, entry.ClientName, req.ClientName))
		}
		if err := accounting.ValidateAllocationTarget(allocations[i], entry, settles, mode == modeSingle); err != nil {
			return nil, err
		}

		accounting.ApplyPayment(&entry, allocations[i].AllocatedAmount)
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = userID
		entries = append(entries, entry)

		allocations[i].AllocationID = uuid.NewString()
		allocations[i].PaymentID = paymentID
		allocations[i].AuditFields = audit
		settled = append(settled, entry.TransactionID)
	}

	total := accounting.SumAllocations(allocations)
	payment := domain.Payment{
		PaymentID:             paymentID,
		ClientName:            req.ClientName,
		Amount:                amount,
		Direction:             req.Direction,
		Date:                  req.Date,
		Notes:                 req.Notes,
		IsMultiAllocation:     mode != modeSingle,
		AllocationCount:       len(allocations),
		TotalAllocated:        total,
		UnallocatedAmount:     currency.ClampZero(currency.Sub(amount, total)),
		SettledTransactionIDs: settled,
		AuditFields:           audit,
	}
	if mode == modeSingle {
		payment.LinkedTransactionID = allocations[0].TransactionID
	} else {
		payment.AllocationMethod = req.AllocationMethod
	}

	return &settlementPlan{payment: payment, allocations: allocations, entries: entries}, nil
}

// applySettlement writes a plan. Every read has already happened.
func (s *paymentService) applySettlement(ctx context.Context, tx portsrepo.AtomicTx, p *settlementPlan) error {
	for _, entry := range p.entries {
		if err := tx.UpdateLedgerSettlement(ctx, entry); err != nil {
			return err
		}
	}
	if err := tx.SavePayment(ctx, p.payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	if err := tx.SaveAllocations(ctx, p.allocations); err != nil {
		return fmt.Errorf("failed to save allocations: %w", err)
	}

	description := p.payment.Notes
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("%s %s", p.payment.Direction, p.payment.ClientName)
	}
	postings := []struct {
		mapping domain.AccountMapping
		amount  decimal.Decimal
	}{
		{accounting.PaymentMapping(p.payment.Direction), p.payment.TotalAllocated},
		{accounting.AdvanceMapping(p.payment.Direction), p.payment.UnallocatedAmount},
	}
	for _, posting := range postings {
		if !posting.amount.IsPositive() {
			continue
		}
		if _, err := s.postJournal(ctx, tx, journalPosting{
			Mapping:     posting.mapping,
			Amount:      posting.amount,
			Description: description,
			Date:        &p.payment.Date,
			SourceType:  domain.SourcePayment,
			SourceID:    p.payment.PaymentID,
			UserID:      p.payment.CreatedBy,
		}); err != nil {
			return err
		}
	}
	return nil
}

// DeletePayment reverses every allocation of a payment and removes it with its journals atomically.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string, userID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}

	var reversed int
	err := s.atomically(ctx, s.uow, "delete_payment", func(ctx context.Context, tx portsrepo.AtomicTx) error {
		if _, err := tx.GetPayment(ctx, paymentID); err != nil {
			return err
		}
		allocations, err := tx.GetAllocations(ctx, paymentID)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(allocations))
		seen := make(map[string]bool, len(allocations))
		for _, a := range allocations {
			if !seen[a.LedgerRecordID] {
				seen[a.LedgerRecordID] = true
				ids = append(ids, a.LedgerRecordID)
			}
		}
		var entries []domain.LedgerEntry
		if len(ids) > 0 {
			entries, err = tx.GetLedgerEntries(ctx, ids)
			if err != nil {
				return err
			}
		}

		byID := make(map[string]*domain.LedgerEntry, len(entries))
		for i := range entries {
			byID[entries[i].ID] = &entries[i]
		}
		now := s.now()
		for _, a := range allocations {
			entry := byID[a.LedgerRecordID]
			if err := accounting.ReversePayment(entry, a.AllocatedAmount); err != nil {
				return err
			}
			entry.LastUpdatedAt = now
			entry.LastUpdatedBy = userID
		}

		for i := range entries {
			if err := tx.UpdateLedgerSettlement(ctx, entries[i]); err != nil {
				return err
			}
		}
		if err := tx.DeletePayment(ctx, paymentID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		if err := tx.DeleteJournalsBySource(ctx, domain.SourcePayment, paymentID); err != nil {
			return fmt.Errorf("failed to delete payment journals: %w", err)
		}
		reversed = len(allocations)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete payment", slog.String("payment_id", paymentID))
		return err
	}

	s.LogInfo(ctx, "Payment deleted",
		slog.String("payment_id", paymentID),
		slog.Int("reversed_allocations", reversed),
		slog.String("user_id", userID))
	return nil
}

// GetPayment retrieves a payment with its allocations.
func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, []domain.PaymentAllocation, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get payment %s: %w", paymentID, err)
	}
	allocations, err := s.paymentRepo.FindAllocationsByPaymentID(ctx, paymentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get payment allocations", slog.String("payment_id", paymentID))
		return nil, nil, fmt.Errorf("failed to get allocations of payment %s: %w", paymentID, err)
	}
	return payment, allocations, nil
}

// ListPayments retrieves a page of a client's payments.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	client := strings.TrimSpace(params.ClientName)
	if client == "" {
		return nil, apperrors.NewValidationError("ClientName", "is required")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	payments, nextToken, err := s.paymentRepo.ListPaymentsByClient(ctx, client, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("client", client))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	res := &dto.ListPaymentsResponse{
		Payments:  make([]dto.PaymentResponse, len(payments)),
		NextToken: nextToken,
	}
	for i := range payments {
		res.Payments[i] = dto.ToPaymentResponse(&payments[i], nil)
	}
	return res, nil
}

// PreviewFIFO shows how a payment would be spread over the client's open entries.
func (s *paymentService) PreviewFIFO(ctx context.Context, clientName string, direction domain.PaymentDirection, amount decimal.Decimal) (*accounting.FIFOResult, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, apperrors.NewValidationError("ClientName", "is required")
	}
	if direction != domain.Receipt && direction != domain.Disbursement {
		return nil, apperrors.NewValidationError("Direction", "must be receipt or disbursement")
	}
	if !currency.IsPositive(currency.Round(amount)) {
		return nil, apperrors.NewValidationError("Amount", "must be a finite number greater than zero")
	}

	open, err := listOpenEntries(ctx, s.entryRepo, clientName, direction.SettlesEntryType())
	if err != nil {
		s.LogError(ctx, err, "Failed to load open entries for preview", slog.String("client", clientName))
		return nil, err
	}
	result := accounting.DistributeFIFO(amount, open)
	return &result, nil
}
