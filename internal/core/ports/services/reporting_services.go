package services

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	TrialBalance(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.TrialBalanceReport, error)
	IncomeStatement(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.IncomeStatementReport, error)
	BalanceSheet(ctx context.Context, caller domain.Caller, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	AccountLedger(ctx context.Context, caller domain.Caller, tenantID string, accountID string, q domain.LedgerQuery) (*domain.AccountLedger, error)
}
