package services

import (
	"context"

	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	"github.com/SscSPs/ledger_settlement/internal/dto"
	"github.com/SscSPs/ledger_settlement/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	// GetPayment retrieves a payment with its allocations.
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, []domain.PaymentAllocation, error)

	// ListPayments retrieves a page of a client's payments.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)

	// PreviewFIFO shows how a payment would be spread over the client's open entries.
	PreviewFIFO(ctx context.Context, clientName string, direction domain.PaymentDirection, amount decimal.Decimal) (*accounting.FIFOResult, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// CreatePayment records a payment, settles its allocations and posts its journal atomically.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, []domain.PaymentAllocation, error)

	// DeletePayment reverses every allocation of a payment and removes it with its journal atomically.
	DeletePayment(ctx context.Context, paymentID string, userID string) error
}

// PaymentSvcFacade combines all payment service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
