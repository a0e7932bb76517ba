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

const ledgerEntryColumns = `id, transaction_id, entry_type, category, sub_category, client_name,
	description, entry_date, amount, total_paid, total_discount, writeoff_amount,
	remaining_balance, payment_status, is_arap_entry, version,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerEntryRepository struct {
	BaseRepository
}

func newPgxLedgerEntryRepository(pool *pgxpool.Pool) portsrepo.LedgerEntryRepositoryFacade {
	return &PgxLedgerEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerEntryRepositoryFacade = (*PgxLedgerEntryRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.ID,
		&m.TransactionID,
		&m.EntryType,
		&m.Category,
		&m.SubCategory,
		&m.ClientName,
		&m.Description,
		&m.EntryDate,
		&m.Amount,
		&m.TotalPaid,
		&m.TotalDiscount,
		&m.WriteoffAmount,
		&m.RemainingBalance,
		&m.PaymentStatus,
		&m.IsARAPEntry,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func queryLedgerEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(fmt.Errorf("failed to query ledger entries: %w", err))
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(fmt.Errorf("error iterating ledger entry rows: %w", err))
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// findLedgerEntriesByIDs returns the entries found for ids, keyed by id.
func findLedgerEntriesByIDs(ctx context.Context, q querier, ids []string) (map[string]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE id = ANY($1)`
	entries, err := queryLedgerEntries(ctx, q, query, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.LedgerEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return byID, nil
}

// FindLedgerEntryByID retrieves a ledger entry by its internal record id.
func (r *PgxLedgerEntryRepository) FindLedgerEntryByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE id = $1`
	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ledger entry %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry by ID "+id, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// FindLedgerEntriesByIDs retrieves several entries at once, in the order of ids.
// Missing ids are skipped.
func (r *PgxLedgerEntryRepository) FindLedgerEntriesByIDs(ctx context.Context, ids []string) ([]domain.LedgerEntry, error) {
	byID, err := findLedgerEntriesByIDs(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LedgerEntry, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListOpenLedgerEntries returns the tracked entries of a client and type that
// still have a remaining balance, oldest first.
func (r *PgxLedgerEntryRepository) ListOpenLedgerEntries(ctx context.Context, clientName string, entryType domain.EntryType) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE client_name = $1 AND entry_type = $2 AND is_arap_entry AND remaining_balance > 0
		ORDER BY entry_date, transaction_id`
	return queryLedgerEntries(ctx, r.Pool, query, clientName, string(entryType))
}

// ListLedgerEntriesByClient retrieves a page of a client's entries, newest first.
func (r *PgxLedgerEntryRepository) ListLedgerEntriesByClient(ctx context.Context, clientName string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	query, args, err := keysetFilter(
		`SELECT `+ledgerEntryColumns+` FROM ledger_entries WHERE client_name = $1`,
		[]any{clientName}, "entry_date", "id", nextToken)
	if err != nil {
		return nil, nil, err
	}
	query, args = withLimit(query, args, "entry_date", "id", limit)

	entries, err := queryLedgerEntries(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, err
	}
	page, token := trimPage(entries, limit, func(e domain.LedgerEntry) (time.Time, string) { return e.Date, e.ID })
	return page, token, nil
}

func insertLedgerEntry(ctx context.Context, q querier, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := q.Exec(ctx, query,
		m.ID,
		m.TransactionID,
		m.EntryType,
		m.Category,
		m.SubCategory,
		m.ClientName,
		m.Description,
		m.EntryDate,
		m.Amount,
		m.TotalPaid,
		m.TotalDiscount,
		m.WriteoffAmount,
		m.RemainingBalance,
		m.PaymentStatus,
		m.IsARAPEntry,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to insert ledger entry %s: %w", m.ID, err))
	}
	return nil
}

// updateLedgerSettlement writes the settlement fields if the stored version is
// still entry.Version, bumping it.
func updateLedgerSettlement(ctx context.Context, q querier, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		UPDATE ledger_entries
		SET total_paid = $1, total_discount = $2, writeoff_amount = $3, remaining_balance = $4,
		    payment_status = $5, last_updated_at = $6, last_updated_by = $7, version = version + 1
		WHERE id = $8 AND version = $9`
	tag, err := q.Exec(ctx, query,
		m.TotalPaid,
		m.TotalDiscount,
		m.WriteoffAmount,
		m.RemainingBalance,
		m.PaymentStatus,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ID,
		m.Version,
	)
	if err != nil {
		return translateError(fmt.Errorf("failed to update ledger entry %s: %w", m.ID, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s changed since version %d", apperrors.ErrConflict, m.ID, m.Version)
	}
	return nil
}

func deleteLedgerEntry(ctx context.Context, q querier, entry domain.LedgerEntry) error {
	tag, err := q.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1 AND version = $2`, entry.ID, entry.Version)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete ledger entry %s: %w", entry.ID, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s changed since version %d", apperrors.ErrConflict, entry.ID, entry.Version)
	}
	return nil
}
