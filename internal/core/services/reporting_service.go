package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/utils/accounting"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
	defaultReportTTL   = 10 * time.Minute
)

var ErrInvalidReportRange = fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)

// reportingService implements the ReportingService interface. It never writes ledger state.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	periodRepo    portsrepo.FiscalPeriodReader
	accountRepo   portsrepo.AccountReader
	cache         portsrepo.ReportCache
	cacheTTL      time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache serves reports through cache for ttl.
func WithReportCache(cache portsrepo.ReportCache, ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, periodRepo portsrepo.FiscalPeriodReader, accountRepo portsrepo.AccountReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		BaseService:   newBaseService(),
		reportingRepo: repo,
		periodRepo:    periodRepo,
		accountRepo:   accountRepo,
		cacheTTL:      defaultReportTTL,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// resolveRange replaces a fiscal period reference with the period's dates and validates the bounds.
func (s *reportingService) resolveRange(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (domain.ReportRange, error) {
	if rng.FiscalPeriodID != "" {
		period, err := s.periodRepo.FindPeriodByID(ctx, rng.FiscalPeriodID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return rng, notFound("fiscal period")
			}
			return rng, fmt.Errorf("failed to resolve fiscal period: %w", err)
		}
		if err := s.AuthorizeResource(ctx, caller, tenantID, period.TenantID, "fiscal period"); err != nil {
			return rng, err
		}
		start, end := period.StartDate, period.EndDate
		rng.StartDate, rng.EndDate = &start, &end
	}
	if rng.StartDate != nil && rng.EndDate != nil && rng.StartDate.After(*rng.EndDate) {
		return rng, ErrInvalidReportRange
	}
	return rng, nil
}

func rangeKey(kind string, rng domain.ReportRange) string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(dto.DateLayout)
	}
	return fmt.Sprintf("%s:%s:%s", kind, format(rng.StartDate), format(rng.EndDate))
}

// cachedReport builds a report through the cache when one is configured.
func cachedReport[T any](ctx context.Context, s *reportingService, tenantID, key string, build func(ctx context.Context) (*T, error)) (*T, error) {
	if s.cache == nil {
		return build(ctx)
	}
	var out T
	err := s.cache.FetchJSON(ctx, tenantID, key, s.cacheTTL, &out, func(ctx context.Context) (any, error) {
		return build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *reportingService) activity(ctx context.Context, tenantID string, from, to *time.Time) ([]domain.AccountActivity, error) {
	activity, err := s.reportingRepo.GetAccountActivity(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account activity", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("%w: failed to aggregate account activity", apperrors.ErrInternal)
	}
	return activity, nil
}

// TrialBalance generates a trial balance over the range
func (s *reportingService) TrialBalance(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.TrialBalanceReport, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	rng, err := s.resolveRange(ctx, caller, tenantID, rng)
	if err != nil {
		return nil, err
	}

	report, err := cachedReport(ctx, s, tenantID, rangeKey("tb", rng), func(ctx context.Context) (*domain.TrialBalanceReport, error) {
		activity, err := s.activity(ctx, tenantID, rng.StartDate, rng.EndDate)
		if err != nil {
			return nil, err
		}
		tb := accounting.BuildTrialBalance(activity, rng)
		return &tb, nil
	})
	if err != nil {
		return nil, err
	}
	if !report.IsBalanced {
		// Every posted entry balances, so this points at corrupted storage.
		s.LogError(ctx, errors.New("trial balance out of balance"), "Ledger integrity check failed",
			slog.String("tenant_id", tenantID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
	}
	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("tenant_id", tenantID),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// IncomeStatement generates revenue minus expenses over the range
func (s *reportingService) IncomeStatement(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.IncomeStatementReport, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	rng, err := s.resolveRange(ctx, caller, tenantID, rng)
	if err != nil {
		return nil, err
	}

	return cachedReport(ctx, s, tenantID, rangeKey("is", rng), func(ctx context.Context) (*domain.IncomeStatementReport, error) {
		activity, err := s.activity(ctx, tenantID, rng.StartDate, rng.EndDate)
		if err != nil {
			return nil, err
		}
		is := accounting.BuildIncomeStatement(activity, rng)
		return &is, nil
	})
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, caller domain.Caller, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		return nil, fmt.Errorf("%w: asOf date is required", apperrors.ErrValidation)
	}
	asOf = domain.DateOnly(asOf)

	report, err := cachedReport(ctx, s, tenantID, "bs:"+asOf.Format(dto.DateLayout), func(ctx context.Context) (*domain.BalanceSheetReport, error) {
		activity, err := s.activity(ctx, tenantID, nil, &asOf)
		if err != nil {
			return nil, err
		}
		bs := accounting.BuildBalanceSheet(activity, asOf)
		return &bs, nil
	})
	if err != nil {
		return nil, err
	}
	if !report.IsBalanced {
		s.LogError(ctx, errors.New("balance sheet out of balance"), "Ledger integrity check failed",
			slog.String("tenant_id", tenantID),
			slog.String("as_of", asOf.Format(dto.DateLayout)))
	}
	return report, nil
}

// AccountLedger returns a page of one account's posted lines with running balances
func (s *reportingService) AccountLedger(ctx context.Context, caller domain.Caller, tenantID string, accountID string, q domain.LedgerQuery) (*domain.AccountLedger, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return nil, ErrInvalidReportRange
	}
	if q.Limit <= 0 {
		q.Limit = defaultLedgerLimit
	}
	if q.Limit > maxLedgerLimit {
		q.Limit = maxLedgerLimit
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound("account")
		}
		s.LogError(ctx, err, "Failed to get account for ledger", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if err := s.AuthorizeResource(ctx, caller, tenantID, account.TenantID, "account"); err != nil {
		return nil, err
	}

	page, err := s.reportingRepo.GetLedgerPage(ctx, accountID, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to read account ledger", slog.String("account_id", accountID))
		return nil, fmt.Errorf("%w: failed to read account ledger", apperrors.ErrInternal)
	}
	ledger, err := accounting.BuildAccountLedger(*account, *page, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &ledger, nil
}
