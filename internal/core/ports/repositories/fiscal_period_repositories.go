package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal periods
type FiscalPeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindOverlappingPeriods returns the tenant's periods intersecting [start, end], bounds inclusive.
	FindOverlappingPeriods(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error)

	// ListPeriods returns the tenant's periods ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.FiscalPeriod, error)
}

// FiscalPeriodWriter defines write operations for fiscal periods
type FiscalPeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
}

// FiscalPeriodRepositoryFacade combines all fiscal-period repository interfaces
type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}

// PeriodTxOps are the fiscal-period operations available inside a ledger transaction.
// Status checks made against a locked row hold until commit.
type PeriodTxOps interface {
	// LockPeriodForShare locks the period against close/reopen while an entry is written into it.
	LockPeriodForShare(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// LockPeriodByDateForShare resolves and share-locks the tenant's period covering date.
	LockPeriodByDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error)

	// LockPeriodForUpdate takes the exclusive lock used by close and reopen.
	LockPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// UpdatePeriodStatus persists status, closedAt and closedBy.
	UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod) error
}
