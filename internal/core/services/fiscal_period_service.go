package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/google/uuid"
)

var (
	ErrPeriodOverlap     = fmt.Errorf("%w: fiscal period overlaps an existing period", apperrors.ErrValidation)
	ErrPeriodInvalidDate = fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	ErrPeriodNotOpen     = fmt.Errorf("%w: fiscal period is not open", apperrors.ErrInvalidState)
	ErrPeriodNotClosed   = fmt.Errorf("%w: fiscal period is not closed", apperrors.ErrInvalidState)
)

type fiscalPeriodService struct {
	BaseService
	periodRepo     portsrepo.FiscalPeriodRepositoryFacade
	txManager      portsrepo.TransactionManager
	closeValidator portssvc.PeriodCloseValidator
}

// FiscalPeriodServiceOption is a functional option for configuring the fiscal period service
type FiscalPeriodServiceOption func(*fiscalPeriodService)

// WithPeriodCloseValidator sets the check run inside the close transaction.
func WithPeriodCloseValidator(v portssvc.PeriodCloseValidator) FiscalPeriodServiceOption {
	return func(s *fiscalPeriodService) {
		s.closeValidator = v
	}
}

// NewFiscalPeriodService creates the fiscal period manager.
func NewFiscalPeriodService(repo portsrepo.FiscalPeriodRepositoryFacade, txManager portsrepo.TransactionManager, options ...FiscalPeriodServiceOption) portssvc.FiscalPeriodSvcFacade {
	svc := &fiscalPeriodService{
		BaseService: newBaseService(),
		periodRepo:  repo,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateFiscalPeriodRequest) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", apperrors.ErrValidation)
	}
	start := domain.DateOnly(req.StartDate.Time)
	end := domain.DateOnly(req.EndDate.Time)
	if !end.After(start) {
		return nil, ErrPeriodInvalidDate
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, tenantID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to check period overlap", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to create fiscal period: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrPeriodOverlap, overlapping[0].Name)
	}

	now := s.now()
	period := domain.FiscalPeriod{
		FiscalPeriodID: uuid.NewString(),
		TenantID:       tenantID,
		Name:           name,
		Description:    req.Description,
		StartDate:      start,
		EndDate:        end,
		Status:         domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		// The exclusion constraint catches overlaps created concurrently.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrPeriodOverlap
		}
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to create fiscal period: %w", err)
	}

	s.LogInfo(ctx, "Fiscal period created",
		slog.String("fiscal_period_id", period.FiscalPeriodID),
		slog.String("tenant_id", tenantID))
	return &period, nil
}

func (s *fiscalPeriodService) GetPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound("fiscal period")
		}
		s.LogError(ctx, err, "Failed to get fiscal period", slog.String("fiscal_period_id", periodID))
		return nil, fmt.Errorf("failed to get fiscal period: %w", err)
	}
	if err := s.AuthorizeResource(ctx, caller, tenantID, period.TenantID, "fiscal period"); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.FiscalPeriod, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list fiscal periods: %w", err)
	}
	return periods, nil
}

// transition locks the period and applies mutate inside one transaction. It runs at read
// committed: journal writers hold FOR SHARE on the period, and a draft they commit while the
// close waits for FOR UPDATE must be visible to the close validator.
func (s *fiscalPeriodService) transition(ctx context.Context, caller domain.Caller, tenantID, periodID string, mutate func(ctx context.Context, tx portsrepo.LedgerTx, p *domain.FiscalPeriod) error) (*domain.FiscalPeriod, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	var result domain.FiscalPeriod
	err := s.txManager.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		period, err := tx.LockPeriodForUpdate(ctx, periodID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return notFound("fiscal period")
			}
			return err
		}
		if err := s.AuthorizeResource(ctx, caller, tenantID, period.TenantID, "fiscal period"); err != nil {
			return err
		}
		if err := mutate(ctx, tx, period); err != nil {
			return err
		}
		period.LastUpdatedAt = s.now()
		period.LastUpdatedBy = caller.UserID
		if err := tx.UpdatePeriodStatus(ctx, *period); err != nil {
			return fmt.Errorf("failed to update fiscal period: %w", err)
		}
		result = *period
		return nil
	}, portsrepo.ReadCommitted())
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.transition(ctx, caller, tenantID, periodID, func(ctx context.Context, tx portsrepo.LedgerTx, p *domain.FiscalPeriod) error {
		if p.Status != domain.PeriodOpen {
			return ErrPeriodNotOpen
		}
		if s.closeValidator != nil {
			if err := s.closeValidator.ValidatePeriodClose(ctx, tx, *p); err != nil {
				return err
			}
		}
		now := s.now()
		closedBy := caller.UserID
		p.Status = domain.PeriodClosed
		p.ClosedAt = &now
		p.ClosedBy = &closedBy
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Fiscal period close rejected",
			slog.String("fiscal_period_id", periodID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period closed",
		slog.String("fiscal_period_id", periodID),
		slog.String("closed_by", caller.UserID))
	return period, nil
}

func (s *fiscalPeriodService) ReopenPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	if !caller.CanReopenPeriods() {
		s.LogWarn(ctx, "Fiscal period reopen denied",
			slog.String("fiscal_period_id", periodID),
			slog.String("user_id", caller.UserID),
			slog.String("role", string(caller.Role)))
		return nil, fmt.Errorf("%w: reopening a fiscal period requires an elevated role", apperrors.ErrForbidden)
	}

	period, err := s.transition(ctx, caller, tenantID, periodID, func(_ context.Context, _ portsrepo.LedgerTx, p *domain.FiscalPeriod) error {
		if p.Status != domain.PeriodClosed {
			return ErrPeriodNotClosed
		}
		p.Status = domain.PeriodOpen
		p.ClosedAt = nil
		p.ClosedBy = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Audit trail for a privileged action.
	s.LogWarn(ctx, "Fiscal period reopened",
		slog.String("audit", "fiscal_period.reopen"),
		slog.String("fiscal_period_id", periodID),
		slog.String("tenant_id", period.TenantID),
		slog.String("actor", caller.UserID))
	return period, nil
}
