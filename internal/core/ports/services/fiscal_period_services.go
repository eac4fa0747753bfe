package services

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
)

// FiscalPeriodSvcFacade manages the OPEN/CLOSED lifecycle of fiscal periods.
type FiscalPeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateFiscalPeriodRequest) (*domain.FiscalPeriod, error)
	GetPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.FiscalPeriod, error)

	// ClosePeriod freezes the period. It fails while draft entries are dated inside it.
	ClosePeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error)

	// ReopenPeriod is restricted to super-tenant operators.
	ReopenPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error)
}
