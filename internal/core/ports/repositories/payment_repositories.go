package repositories

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
)

// PaymentReader defines read operations for payments outside a unit of work.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment by its id.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindAllocationsByPaymentID retrieves the allocations of a payment.
	FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)

	// ListPaymentsByClient retrieves a page of a client's payments, newest first.
	ListPaymentsByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentTxReader reads payments as part of a unit of work's read set.
type PaymentTxReader interface {
	// GetPayment fails with apperrors.ErrNotFound when the payment does not exist.
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)

	// GetAllocations returns the allocations of a payment, possibly none.
	GetAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error)
}

// PaymentTxWriter writes payments and their allocations inside a unit of work.
type PaymentTxWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error

	// DeletePayment removes the payment and, by cascade, its allocations.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentRepositoryFacade combines the payment read operations.
type PaymentRepositoryFacade interface {
	PaymentReader
}
