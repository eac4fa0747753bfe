package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/models"
	"github.com/SscSPs/school_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `fiscal_period_id, tenant_id, name, description, start_date, end_date, status,
	closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) *PgxFiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository: newBaseRepository(pool)}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func (r *PgxFiscalPeriodRepository) queryPeriods(ctx context.Context, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	modelPeriods, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, err
	}
	periods := make([]domain.FiscalPeriod, len(modelPeriods))
	for i, m := range modelPeriods {
		periods[i] = mapping.ToDomainFiscalPeriod(m)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) queryPeriod(ctx context.Context, query string, args ...any) (*domain.FiscalPeriod, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query fiscal period")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FiscalPeriod])
	if err != nil {
		return nil, mapPgError(err, "failed to scan fiscal period")
	}
	period := mapping.ToDomainFiscalPeriod(m)
	return &period, nil
}

// SavePeriod inserts a new fiscal period. The exclusion constraint rejects overlaps as ErrDuplicate.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.FiscalPeriodID, m.TenantID, m.Name, m.Description, m.StartDate, m.EndDate, m.Status,
		m.ClosedAt, m.ClosedBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to save fiscal period %s", m.FiscalPeriodID))
	}
	return nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := r.queryPeriod(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE fiscal_period_id = $1;`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}
	return period, nil
}

// FindOverlappingPeriods returns the tenant's periods intersecting [start, end].
func (r *PgxFiscalPeriodRepository) FindOverlappingPeriods(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE tenant_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date;
	`
	periods, err := r.queryPeriods(ctx, query, tenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping fiscal periods: %w", err)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE tenant_id = $1 ORDER BY start_date;`
	periods, err := r.queryPeriods(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods for tenant %s: %w", tenantID, err)
	}
	return periods, nil
}

// LockPeriodForShare blocks close and reopen of the period until the transaction ends.
func (r *PgxFiscalPeriodRepository) LockPeriodForShare(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE fiscal_period_id = $1 FOR SHARE;`
	return r.queryPeriod(ctx, query, periodID)
}

// LockPeriodByDateForShare resolves the period covering date and share-locks it.
func (r *PgxFiscalPeriodRepository) LockPeriodByDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE tenant_id = $1 AND start_date <= $2 AND end_date >= $2
		FOR SHARE;
	`
	return r.queryPeriod(ctx, query, tenantID, domain.DateOnly(date))
}

func (r *PgxFiscalPeriodRepository) LockPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE fiscal_period_id = $1 FOR UPDATE;`
	return r.queryPeriod(ctx, query, periodID)
}

func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		UPDATE fiscal_periods
		SET status = $2, closed_at = $3, closed_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE fiscal_period_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.FiscalPeriodID, m.Status, m.ClosedAt, m.ClosedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update fiscal period %s", m.FiscalPeriodID))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
