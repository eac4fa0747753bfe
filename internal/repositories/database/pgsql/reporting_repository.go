package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// qualifyingEntry restricts aggregation to posted entries that do not compensate another
// entry. A reversed original is REVERSED, so the pair drops out together.
const qualifyingEntry = `j.status = 'POSTED' AND j.reversal_of_entry_id IS NULL`

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: newBaseRepository(pool)}
}

// GetAccountActivity returns debit and credit totals per account of the tenant within [from, to].
func (r *reportingRepository) GetAccountActivity(ctx context.Context, tenantID string, from, to *time.Time) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			a.is_active,
			COALESCE(SUM(q.debit), 0) AS total_debit,
			COALESCE(SUM(q.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, l.debit, l.credit
			FROM journal_entry_lines l
			JOIN journal_entries j ON j.journal_entry_id = l.journal_entry_id
			WHERE j.tenant_id = $1
				AND ` + qualifyingEntry + `
				AND ($2::date IS NULL OR j.entry_date >= $2::date)
				AND ($3::date IS NULL OR j.entry_date <= $3::date)
		) q ON q.account_id = a.account_id
		WHERE a.tenant_id = $1
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.is_active
		ORDER BY a.code;
	`

	rows, err := r.db.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying account activity: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var row domain.AccountActivity
		var accountType string
		if err := rows.Scan(
			&row.AccountID,
			&row.Code,
			&row.Name,
			&accountType,
			&row.IsActive,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account activity row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	return result, nil
}

// ledgerLinesCTE numbers an account's qualifying lines inside [$2, $3] chronologically and
// flags the lines dated before $2. Parameters: $1 account, $2 start, $3 end.
const ledgerLinesCTE = `
	WITH lines AS (
		SELECT j.journal_entry_id, j.entry_number, j.entry_date,
		       COALESCE(NULLIF(l.description, ''), j.description) AS description,
		       l.line_number, l.debit, l.credit,
		       ($2::date IS NOT NULL AND j.entry_date < $2::date) AS is_prior
		FROM journal_entry_lines l
		JOIN journal_entries j ON j.journal_entry_id = l.journal_entry_id
		WHERE l.account_id = $1
			AND ` + qualifyingEntry + `
			AND ($3::date IS NULL OR j.entry_date <= $3::date)
	), in_range AS (
		SELECT *, ROW_NUMBER() OVER (ORDER BY entry_date, journal_entry_id, line_number) AS rn
		FROM lines
		WHERE NOT is_prior
	)
`

// GetLedgerPage reads the page and its carried-forward totals from one snapshot.
func (r *reportingRepository) GetLedgerPage(ctx context.Context, accountID string, q domain.LedgerQuery) (*domain.LedgerPageRows, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin ledger read: %w", err)
	}
	defer r.Rollback(ctx, tx)

	page := &domain.LedgerPageRows{}
	summaryQuery := ledgerLinesCTE + `
		SELECT
			(SELECT COALESCE(SUM(debit), 0) FROM lines WHERE is_prior)
				+ (SELECT COALESCE(SUM(debit), 0) FROM in_range WHERE rn <= $4) AS prior_debit,
			(SELECT COALESCE(SUM(credit), 0) FROM lines WHERE is_prior)
				+ (SELECT COALESCE(SUM(credit), 0) FROM in_range WHERE rn <= $4) AS prior_credit,
			(SELECT COUNT(*) FROM in_range) AS total;
	`
	if err := tx.QueryRow(ctx, summaryQuery, accountID, q.StartDate, q.EndDate, q.Offset).
		Scan(&page.PriorDebit, &page.PriorCredit, &page.Total); err != nil {
		return nil, fmt.Errorf("error querying ledger totals: %w", err)
	}

	pageQuery := ledgerLinesCTE + `
		SELECT journal_entry_id, entry_number, entry_date, description, line_number, debit, credit
		FROM in_range
		WHERE rn > $4
		ORDER BY rn
		LIMIT $5;
	`
	rows, err := tx.Query(ctx, pageQuery, accountID, q.StartDate, q.EndDate, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger lines: %w", err)
	}
	defer rows.Close()

	page.Rows = []domain.LedgerLineRow{}
	for rows.Next() {
		var row domain.LedgerLineRow
		if err := rows.Scan(
			&row.JournalEntryID,
			&row.EntryNumber,
			&row.EntryDate,
			&row.Description,
			&row.LineNumber,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning ledger line: %w", err)
		}
		row.EntryDate = domain.DateOnly(row.EntryDate)
		page.Rows = append(page.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines: %w", err)
	}
	return page, nil
}
