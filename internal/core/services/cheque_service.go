package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_settlement/internal/core/ports/services"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/currency"
)

type chequeService struct {
	BaseService
	chequeRepo portsrepo.ChequeRepositoryFacade
}

// NewChequeService creates a new cheque service.
func NewChequeService(chequeRepo portsrepo.ChequeRepositoryFacade, options ...ServiceOption) portssvc.ChequeSvcFacade {
	svc := &chequeService{
		BaseService: newBaseService(),
		chequeRepo:  chequeRepo,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

// CreateCheque registers a cheque in pending status.
func (s *chequeService) CreateCheque(ctx context.Context, req dto.CreateChequeRequest, userID string) (*domain.Cheque, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ChequeNumber) == "" {
		return nil, apperrors.NewValidationError("ChequeNumber", "is required")
	}
	if strings.TrimSpace(req.ClientName) == "" {
		return nil, apperrors.NewValidationError("ClientName", "is required")
	}
	if req.Direction != domain.ChequeIncoming && req.Direction != domain.ChequeOutgoing {
		return nil, apperrors.NewValidationError("Direction", "must be incoming or outgoing")
	}
	switch req.AccountingType {
	case domain.ChequeAccountingCashed, domain.ChequeAccountingPostponed, domain.ChequeAccountingEndorsed:
	default:
		return nil, apperrors.NewValidationError("AccountingType", "must be cashed, postponed or endorsed")
	}
	amount := currency.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("Amount", "must be a finite number greater than zero")
	}
	if req.DueDate.IsZero() {
		return nil, apperrors.NewValidationError("DueDate", "is required")
	}

	now := s.now()
	cheque := domain.Cheque{
		ChequeID:       uuid.NewString(),
		ChequeNumber:   strings.TrimSpace(req.ChequeNumber),
		ClientName:     strings.TrimSpace(req.ClientName),
		Status:         domain.ChequePending,
		Direction:      req.Direction,
		AccountingType: req.AccountingType,
		Amount:         amount,
		BankName:       req.BankName,
		DueDate:        req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.chequeRepo.SaveCheque(ctx, cheque); err != nil {
		s.LogError(ctx, err, "Failed to save cheque", slog.String("cheque_number", cheque.ChequeNumber))
		return nil, fmt.Errorf("failed to save cheque: %w", err)
	}

	s.LogInfo(ctx, "Cheque created",
		slog.String("cheque_id", cheque.ChequeID),
		slog.String("cheque_number", cheque.ChequeNumber))
	return &cheque, nil
}

// GetCheque retrieves a cheque.
func (s *chequeService) GetCheque(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cheque %s: %w", chequeID, err)
	}
	return cheque, nil
}

// ListCheques lists cheques in one status, newest due date first.
func (s *chequeService) ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error) {
	if params.Status == "" {
		params.Status = domain.ChequePending
	}
	if !params.Status.IsValid() {
		return nil, apperrors.NewValidationError("Status", fmt.Sprintf("unknown cheque status %q", params.Status))
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	cheques, nextToken, err := s.chequeRepo.ListChequesByStatus(ctx, params.Status, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cheques", slog.String("status", string(params.Status)))
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}

	res := &dto.ListChequesResponse{
		Cheques:   make([]dto.ChequeResponse, len(cheques)),
		NextToken: nextToken,
	}
	for i := range cheques {
		res.Cheques[i] = dto.ToChequeResponse(&cheques[i])
	}
	return res, nil
}

// TransitionCheque moves a cheque to a new status if the transition table allows it.
// The write is a compare-and-set on the status that was read.
func (s *chequeService) TransitionCheque(ctx context.Context, chequeID string, req dto.TransitionChequeRequest, userID string) (*domain.Cheque, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	to := req.Status
	if to == domain.ChequeDeleted {
		return nil, apperrors.NewValidationError("Status", "use the delete operation to remove a cheque")
	}
	if !to.IsValid() {
		return nil, apperrors.NewValidationError("Status", fmt.Sprintf("unknown cheque status %q", to))
	}
	var endorsee *string
	if to == domain.ChequeEndorsed {
		if req.EndorseeName == nil || strings.TrimSpace(*req.EndorseeName) == "" {
			return nil, apperrors.NewValidationError("EndorseeName", "is required when endorsing a cheque")
		}
		name := strings.TrimSpace(*req.EndorseeName)
		endorsee = &name
	}

	var updated domain.Cheque
	err := s.retryOnConflict(ctx, "transition_cheque", func() error {
		cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
		if err != nil {
			return err
		}
		from := cheque.Status
		if err := domain.ValidateTransition(from, to); err != nil {
			return err
		}

		next := *cheque
		next.Status = to
		if endorsee != nil {
			next.EndorseeName = endorsee
		}
		next.LastUpdatedAt = s.now()
		next.LastUpdatedBy = userID
		if err := s.chequeRepo.UpdateChequeStatus(ctx, next, from); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to transition cheque",
			slog.String("cheque_id", chequeID),
			slog.String("to_status", string(to)))
		return nil, err
	}

	s.LogInfo(ctx, "Cheque status changed",
		slog.String("cheque_id", chequeID),
		slog.String("status", string(updated.Status)))
	return &updated, nil
}

// DeleteCheque removes a cheque that is still pending.
func (s *chequeService) DeleteCheque(ctx context.Context, chequeID string, userID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}

	err := s.retryOnConflict(ctx, "delete_cheque", func() error {
		cheque, err := s.chequeRepo.FindChequeByID(ctx, chequeID)
		if err != nil {
			return err
		}
		if err := domain.ValidateDeletion(cheque.Status); err != nil {
			return err
		}
		return s.chequeRepo.DeleteCheque(ctx, chequeID, cheque.Status)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete cheque", slog.String("cheque_id", chequeID))
		return err
	}

	s.LogInfo(ctx, "Cheque deleted", slog.String("cheque_id", chequeID), slog.String("user_id", userID))
	return nil
}
