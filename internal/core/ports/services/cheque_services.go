package services

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/dto"
)

// ChequeSvcFacade defines the cheque workflow operations
type ChequeSvcFacade interface {
	// CreateCheque registers a cheque in pending status.
	CreateCheque(ctx context.Context, req dto.CreateChequeRequest, userID string) (*domain.Cheque, error)

	// GetCheque retrieves a cheque.
	GetCheque(ctx context.Context, chequeID string) (*domain.Cheque, error)

	// ListCheques lists cheques in one status, newest due date first.
	ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error)

	// TransitionCheque moves a cheque to a new status if the transition table allows it.
	TransitionCheque(ctx context.Context, chequeID string, req dto.TransitionChequeRequest, userID string) (*domain.Cheque, error)

	// DeleteCheque removes a cheque that is still pending.
	DeleteCheque(ctx context.Context, chequeID string, userID string) error
}
