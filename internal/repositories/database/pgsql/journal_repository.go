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

const journalColumns = `journal_id, entry_number, journal_date, description, source_type, source_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalID,
		&m.EntryNumber,
		&m.JournalDate,
		&m.Description,
		&m.SourceType,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// findLinesByJournalIDs loads the lines of several journals, keyed by journal id
// and ordered by line number.
func (r *PgxJournalRepository) findLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]models.JournalLine, error) {
	query := `
		SELECT journal_id, line_no, account_code, account_name_localized, debit, credit
		FROM journal_lines
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_no`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	lines := make(map[string][]models.JournalLine, len(journalIDs))
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.JournalID, &l.LineNo, &l.AccountCode, &l.AccountNameLocalized, &l.Debit, &l.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		lines[l.JournalID] = append(lines[l.JournalID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return lines, nil
}

// queryJournals runs a header query and attaches the lines of every row.
func (r *PgxJournalRepository) queryJournals(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	headers := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.findLinesByJournalIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	journals := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		journals[i] = mapping.ToDomainJournal(h, lines[h.JournalID])
	}
	return journals, nil
}

// FindJournalByID retrieves a journal entry and its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE journal_id = $1`
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Map db not found error to application specific error
			return nil, fmt.Errorf("journal %s: %w", journalID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	lines, err := r.findLinesByJournalIDs(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	journal := mapping.ToDomainJournal(m, lines[journalID])
	return &journal, nil
}

// FindJournalsBySource retrieves the journal entries posted for a source record.
func (r *PgxJournalRepository) FindJournalsBySource(ctx context.Context, sourceType domain.JournalSourceType, sourceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE source_type = $1 AND source_id = $2
		ORDER BY created_at, entry_number`
	return r.queryJournals(ctx, query, string(sourceType), sourceID)
}

// ListJournalEntries retrieves every journal entry dated on or before asOf, with lines.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, asOf time.Time) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE journal_date <= $1
		ORDER BY created_at, entry_number`
	return r.queryJournals(ctx, query, asOf)
}

// insertJournal writes the header and its lines in one batch. A taken entry
// number fails with apperrors.ErrDuplicate.
func insertJournal(ctx context.Context, q querier, journal domain.JournalEntry) error {
	header, lines := mapping.ToModelJournal(journal)

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO journal_entries (`+journalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		header.JournalID,
		header.EntryNumber,
		header.JournalDate,
		header.Description,
		header.SourceType,
		header.SourceID,
		header.CreatedAt,
		header.CreatedBy,
		header.LastUpdatedAt,
		header.LastUpdatedBy,
	)
	lineQuery := `
		INSERT INTO journal_lines (journal_id, line_no, account_code, account_name_localized, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		batch.Queue(lineQuery, l.JournalID, l.LineNo, l.AccountCode, l.AccountNameLocalized, l.Debit, l.Credit)
	}

	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(fmt.Errorf("failed to insert journal %s: %w", header.EntryNumber, err))
	}
	return nil
}

// deleteJournalsBySource removes the journals of a source; lines cascade.
func deleteJournalsBySource(ctx context.Context, q querier, sourceType domain.JournalSourceType, sourceID string) error {
	_, err := q.Exec(ctx, `DELETE FROM journal_entries WHERE source_type = $1 AND source_id = $2`, string(sourceType), sourceID)
	if err != nil {
		return translateError(fmt.Errorf("failed to delete %s journals of %s: %w", sourceType, sourceID, err))
	}
	return nil
}
