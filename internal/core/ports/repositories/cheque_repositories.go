package repositories

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
)

// ChequeReader defines read operations for cheques
type ChequeReader interface {
	FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error)
	ListChequesByStatus(ctx context.Context, status domain.ChequeStatus, limit int, nextToken *string) ([]domain.Cheque, *string, error)
}

// ChequeWriter defines write operations for cheques
type ChequeWriter interface {
	SaveCheque(ctx context.Context, cheque domain.Cheque) error

	// UpdateChequeStatus moves a cheque from one status to another. It fails with
	// apperrors.ErrConflict if the stored status is no longer from.
	UpdateChequeStatus(ctx context.Context, cheque domain.Cheque, from domain.ChequeStatus) error

	// DeleteCheque removes a cheque still in expectedStatus, else apperrors.ErrConflict.
	DeleteCheque(ctx context.Context, chequeID string, expectedStatus domain.ChequeStatus) error
}

// ChequeRepositoryFacade combines all cheque-related repository interfaces
type ChequeRepositoryFacade interface {
	ChequeReader
	ChequeWriter
}
