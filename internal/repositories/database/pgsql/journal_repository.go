package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `journal_entry_id, tenant_id, entry_number, entry_date, description, reference,
	reference_type, reference_id, fiscal_period_id, status, posted_by, posted_at,
	reversed_by_entry_id, reversed_at, reversal_of_entry_id, total_debit, total_credit,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: newBaseRepository(pool)}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// loadLines fetches the lines of the given entries, keyed by entry id and ordered by line number.
func (r *PgxJournalRepository) loadLines(ctx context.Context, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}
	query := `
		SELECT l.line_id, l.journal_entry_id, l.account_id, a.code AS account_code, a.name AS account_name,
		       l.debit, l.credit, l.description, l.line_number
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.journal_entry_id = ANY($1)
		ORDER BY l.journal_entry_id, l.line_number;
	`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entry lines: %w", err)
	}
	modelLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry lines: %w", err)
	}
	lines := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for _, m := range modelLines {
		lines[m.JournalEntryID] = append(lines[m.JournalEntryID], mapping.ToDomainJournalEntryLine(m))
	}
	return lines, nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, query string, entryID string) (*domain.JournalEntry, error) {
	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal entry")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapPgError(err, "failed to scan journal entry")
	}
	entry := mapping.ToDomainJournalEntry(m)
	lines, err := r.loadLines(ctx, []string{entry.JournalEntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.JournalEntryID]
	return &entry, nil
}

// FindJournalEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE journal_entry_id = $1;`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListJournalEntries retrieves a keyset page of a tenant's entries, newest first.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, after *domain.JournalEntryCursor) ([]domain.JournalEntry, *domain.JournalEntryCursor, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.ReferenceType != "" {
		args = append(args, string(filter.ReferenceType))
		conditions = append(conditions, "reference_type = $"+strconv.Itoa(len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, "entry_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, "entry_date <= $"+strconv.Itoa(len(args)))
	}
	if after != nil {
		// Tuple comparison matches the ORDER BY below
		args = append(args, after.EntryDate, after.JournalEntryID)
		conditions = append(conditions, fmt.Sprintf("(entry_date, journal_entry_id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, fetchLimit)

	query := `SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY entry_date DESC, journal_entry_id DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for tenant "+tenantID, err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry rows for tenant "+tenantID, err)
	}

	var next *domain.JournalEntryCursor
	if len(modelEntries) > limit {
		modelEntries = modelEntries[:limit]
		last := modelEntries[limit-1]
		// The next page starts after the last item included in this one
		next = &domain.JournalEntryCursor{EntryDate: domain.DateOnly(last.EntryDate), JournalEntryID: last.JournalEntryID}
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	ids := make([]string, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
		ids[i] = m.JournalEntryID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].JournalEntryID]
	}
	return entries, next, nil
}

// NextEntrySequence increments the tenant's counter for year. The upsert holds the counter
// row lock until the transaction ends, so numbers are never handed out twice.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context, tenantID string, year int) (int64, error) {
	query := `
		INSERT INTO journal_entry_sequences (tenant_id, year, last_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year) DO UPDATE SET last_seq = journal_entry_sequences.last_seq + 1
		RETURNING last_seq;
	`
	var seq int64
	if err := r.db.QueryRow(ctx, query, tenantID, year).Scan(&seq); err != nil {
		return 0, mapPgError(err, "failed to allocate entry sequence")
	}
	return seq, nil
}

// InsertJournalEntry saves the header and queues every line in one batch.
func (r *PgxJournalRepository) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		m.JournalEntryID, m.TenantID, m.EntryNumber, m.EntryDate, m.Description, m.Reference,
		m.ReferenceType, m.ReferenceID, m.FiscalPeriodID, m.Status, m.PostedBy, m.PostedAt,
		m.ReversedByEntryID, m.ReversedAt, m.ReversalOfEntryID, m.TotalDebit, m.TotalCredit,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to insert journal entry "+m.JournalEntryID)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, journal_entry_id, account_id, debit, credit, description, line_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		ml := mapping.ToModelJournalEntryLine(line)
		batch.Queue(lineQuery, ml.LineID, m.JournalEntryID, ml.AccountID, ml.Debit, ml.Credit, ml.Description, ml.LineNumber)
	}
	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = mapPgError(err, fmt.Sprintf("failed to insert line %d of journal entry %s", i+1, m.JournalEntryID))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal line batch: %w", err)
	}
	return batchErr
}

// LockJournalEntryForUpdate loads an entry with its lines and locks the header row.
func (r *PgxJournalRepository) LockJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE journal_entry_id = $1 FOR UPDATE;`, entryID)
}

// UpdateJournalEntryHeader persists the mutable header fields. Lines are immutable once written.
func (r *PgxJournalRepository) UpdateJournalEntryHeader(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET description = $2, status = $3, posted_by = $4, posted_at = $5,
		    reversed_by_entry_id = $6, reversed_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE journal_entry_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		m.JournalEntryID, m.Description, m.Status, m.PostedBy, m.PostedAt,
		m.ReversedByEntryID, m.ReversedAt, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to update journal entry "+m.JournalEntryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteJournalEntry removes a header; its lines cascade.
func (r *PgxJournalRepository) DeleteJournalEntry(ctx context.Context, entryID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE journal_entry_id = $1;`, entryID)
	if err != nil {
		return mapPgError(err, "failed to delete journal entry "+entryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountEntriesInRange counts the tenant's entries in status dated within [start, end].
func (r *PgxJournalRepository) CountEntriesInRange(ctx context.Context, tenantID string, status domain.JournalStatus, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM journal_entries
		WHERE tenant_id = $1 AND status = $2 AND entry_date BETWEEN $3 AND $4;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, tenantID, string(status), start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}
