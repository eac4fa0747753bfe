package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// ReportingRepository defines read-only aggregation over posted journal lines.
// Only POSTED entries that do not compensate another entry are counted.
type ReportingRepository interface {
	// GetAccountActivity returns debit and credit totals per account for lines dated within
	// [from, to]. Nil bounds are open. Every account of the tenant is returned.
	GetAccountActivity(ctx context.Context, tenantID string, from, to *time.Time) ([]domain.AccountActivity, error)

	// GetLedgerPage returns one page of an account's lines in chronological order, with the
	// debit/credit totals of every qualifying line ordered before the page.
	GetLedgerPage(ctx context.Context, accountID string, q domain.LedgerQuery) (*domain.LedgerPageRows, error)
}
