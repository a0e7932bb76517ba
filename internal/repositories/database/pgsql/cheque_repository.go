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

const chequeColumns = `cheque_id, cheque_number, client_name, status, direction, accounting_type,
	amount, bank_name, due_date, endorsee_name,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxChequeRepository struct {
	BaseRepository
}

func newPgxChequeRepository(pool *pgxpool.Pool) portsrepo.ChequeRepositoryFacade {
	return &PgxChequeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChequeRepositoryFacade = (*PgxChequeRepository)(nil)

func scanCheque(row pgx.Row) (models.Cheque, error) {
	var m models.Cheque
	err := row.Scan(
		&m.ChequeID,
		&m.ChequeNumber,
		&m.ClientName,
		&m.Status,
		&m.Direction,
		&m.AccountingType,
		&m.Amount,
		&m.BankName,
		&m.DueDate,
		&m.EndorseeName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindChequeByID retrieves a cheque.
func (r *PgxChequeRepository) FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error) {
	query := `SELECT ` + chequeColumns + ` FROM cheques WHERE cheque_id = $1`
	m, err := scanCheque(r.Pool.QueryRow(ctx, query, chequeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cheque %s: %w", chequeID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find cheque by ID "+chequeID, err)
	}
	cheque := mapping.ToDomainCheque(m)
	return &cheque, nil
}

// ListChequesByStatus retrieves a page of cheques in one status, latest due date first.
func (r *PgxChequeRepository) ListChequesByStatus(ctx context.Context, status domain.ChequeStatus, limit int, nextToken *string) ([]domain.Cheque, *string, error) {
	query, args, err := keysetFilter(
		`SELECT `+chequeColumns+` FROM cheques WHERE status = $1`,
		[]any{string(status)}, "due_date", "cheque_id", nextToken)
	if err != nil {
		return nil, nil, err
	}
	query, args = withLimit(query, args, "due_date", "cheque_id", limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list cheques", err)
	}
	defer rows.Close()

	cheques := []domain.Cheque{}
	for rows.Next() {
		m, err := scanCheque(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan cheque row: %w", err)
		}
		cheques = append(cheques, mapping.ToDomainCheque(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating cheque rows: %w", err)
	}

	page, token := trimPage(cheques, limit, func(c domain.Cheque) (time.Time, string) { return c.DueDate, c.ChequeID })
	return page, token, nil
}

// SaveCheque persists a new cheque.
func (r *PgxChequeRepository) SaveCheque(ctx context.Context, cheque domain.Cheque) error {
	m := mapping.ToModelCheque(cheque)
	query := `
		INSERT INTO cheques (` + chequeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.Pool.Exec(ctx, query,
		m.ChequeID,
		m.ChequeNumber,
		m.ClientName,
		m.Status,
		m.Direction,
		m.AccountingType,
		m.Amount,
		m.BankName,
		m.DueDate,
		m.EndorseeName,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to insert cheque %s: %w", m.ChequeID, err))
	}
	return nil
}

// UpdateChequeStatus writes cheque if the stored status is still from.
func (r *PgxChequeRepository) UpdateChequeStatus(ctx context.Context, cheque domain.Cheque, from domain.ChequeStatus) error {
	m := mapping.ToModelCheque(cheque)
	query := `
		UPDATE cheques
		SET status = $1, endorsee_name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE cheque_id = $5 AND status = $6`
	tag, err := r.Pool.Exec(ctx, query, m.Status, m.EndorseeName, m.LastUpdatedAt, m.LastUpdatedBy, m.ChequeID, string(from))
	if err != nil {
		return translateError(fmt.Errorf("failed to update cheque %s: %w", m.ChequeID, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cheque %s is no longer %s", apperrors.ErrConflict, m.ChequeID, from)
	}
	return nil
}

// DeleteCheque removes a cheque still in expectedStatus.
func (r *PgxChequeRepository) DeleteCheque(ctx context.Context, chequeID string, expectedStatus domain.ChequeStatus) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM cheques WHERE cheque_id = $1 AND status = $2`, chequeID, string(expectedStatus))
	if err != nil {
		return translateError(fmt.Errorf("failed to delete cheque %s: %w", chequeID, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cheque %s is no longer %s", apperrors.ErrConflict, chequeID, expectedStatus)
	}
	return nil
}
