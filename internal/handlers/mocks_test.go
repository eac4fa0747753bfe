package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, caller domain.Caller, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, caller, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, caller domain.Caller, tenantID string, filter domain.AccountFilter) ([]domain.AccountListItem, error) {
	args := m.Called(ctx, caller, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountListItem), args.Error(1)
}

func (m *MockAccountService) GetAccountTree(ctx context.Context, caller domain.Caller, tenantID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, caller, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, caller, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, caller, tenantID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string) error {
	args := m.Called(ctx, caller, tenantID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) SeedDefaultAccounts(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, caller, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock FiscalPeriodService ---
type MockFiscalPeriodService struct {
	mock.Mock
}

func (m *MockFiscalPeriodService) CreatePeriod(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateFiscalPeriodRequest) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, caller, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) GetPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, caller, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) ListPeriods(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, caller, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) ClosePeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, caller, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalPeriodService) ReopenPeriod(ctx context.Context, caller domain.Caller, tenantID string, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, caller, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

var _ portssvc.FiscalPeriodSvcFacade = (*MockFiscalPeriodService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, caller domain.Caller, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, caller, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, tenantID, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.ReverseJournalEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, caller, tenantID, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) DeleteJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) error {
	args := m.Called(ctx, caller, tenantID, entryID)
	return args.Error(0)
}

func (m *MockJournalService) ValidatePeriodClose(ctx context.Context, tx portsrepo.LedgerTx, period domain.FiscalPeriod) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, caller, tenantID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, caller domain.Caller, tenantID string, rng domain.ReportRange) (*domain.IncomeStatementReport, error) {
	args := m.Called(ctx, caller, tenantID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, caller domain.Caller, tenantID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, caller, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) AccountLedger(ctx context.Context, caller domain.Caller, tenantID string, accountID string, q domain.LedgerQuery) (*domain.AccountLedger, error) {
	args := m.Called(ctx, caller, tenantID, accountID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountLedger), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
