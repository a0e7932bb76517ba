package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	"github.com/SscSPs/ledger_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_settlement/internal/models"
	"github.com/SscSPs/ledger_settlement/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `payment_id, client_name, amount, direction, payment_date, notes,
	is_multi_allocation, allocation_method, allocation_count, total_allocated,
	unallocated_amount, linked_transaction_id, settled_transaction_ids,
	created_at, created_by, last_updated_at, last_updated_by`

const allocationColumns = `allocation_id, payment_id, transaction_id, ledger_record_id,
	allocated_amount, transaction_date, description,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.ClientName,
		&m.Amount,
		&m.Direction,
		&m.PaymentDate,
		&m.Notes,
		&m.IsMultiAllocation,
		&m.AllocationMethod,
		&m.AllocationCount,
		&m.TotalAllocated,
		&m.UnallocatedAmount,
		&m.LinkedTransactionID,
		&m.SettledTransactionIDs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findPayment(ctx context.Context, q querier, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1`
	m, err := scanPayment(q.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
		}
		return nil, translateError(fmt.Errorf("failed to find payment %s: %w", paymentID, err))
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func findAllocations(ctx context.Context, q querier, paymentID string) ([]domain.PaymentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM payment_allocations WHERE payment_id = $1 ORDER BY transaction_date, allocation_id`
	rows, err := q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to query allocations of payment %s: %w", paymentID, err))
	}
	defer rows.Close()

	allocations := []domain.PaymentAllocation{}
	for rows.Next() {
		var m models.PaymentAllocation
		if err := rows.Scan(
			&m.AllocationID,
			&m.PaymentID,
			&m.TransactionID,
			&m.LedgerRecordID,
			&m.AllocatedAmount,
			&m.TransactionDate,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, mapping.ToDomainAllocation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(fmt.Errorf("error iterating allocation rows: %w", err))
	}
	return allocations, nil
}

// FindPaymentByID retrieves a payment by its id.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return findPayment(ctx, r.Pool, paymentID)
}

// FindAllocationsByPaymentID retrieves the allocations of a payment.
func (r *PgxPaymentRepository) FindAllocationsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	return findAllocations(ctx, r.Pool, paymentID)
}

// ListPaymentsByClient retrieves a page of a client's payments, newest first.
func (r *PgxPaymentRepository) ListPaymentsByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	query, args, err := keysetFilter(
		`SELECT `+paymentColumns+` FROM payments WHERE client_name = $1`,
		[]any{clientName}, "payment_date", "payment_id", nextToken)
	if err != nil {
		return nil, nil, err
	}
	query, args = withLimit(query, args, "payment_date", "payment_id", limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list payments for client "+clientName, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating payment rows: %w", err)
	}

	page, token := trimPage(payments, limit, func(p domain.Payment) (time.Time, string) { return p.Date, p.PaymentID })
	return page, token, nil
}

func insertPayment(ctx context.Context, q querier, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := q.Exec(ctx, query,
		m.PaymentID,
		m.ClientName,
		m.Amount,
		m.Direction,
		m.PaymentDate,
		m.Notes,
		m.IsMultiAllocation,
		m.AllocationMethod,
		m.AllocationCount,
		m.TotalAllocated,
		m.UnallocatedAmount,
		m.LinkedTransactionID,
		m.SettledTransactionIDs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, err))
	}
	return nil
}

func insertAllocations(ctx context.Context, q querier, allocations []domain.PaymentAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	query := `
		INSERT INTO payment_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for _, a := range allocations {
		m := mapping.ToModelAllocation(a)
		batch.Queue(query,
			m.AllocationID,
			m.PaymentID,
			m.TransactionID,
			m.LedgerRecordID,
			m.AllocatedAmount,
			m.TransactionDate,
			m.Description,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	// Close reports the first failing insert.
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(fmt.Errorf("failed to insert allocations of payment %s: %w", allocations[0].PaymentID, err))
	}
	return nil
}

// deletePayment removes a payment read in the same unit of work; allocations
// go with it through ON DELETE CASCADE.
func deletePayment(ctx context.Context, q querier, paymentID string) error {
	tag, err := q.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1`, paymentID)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete payment %s: %w", paymentID, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s was already removed", apperrors.ErrConflict, paymentID)
	}
	return nil
}
