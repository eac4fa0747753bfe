package services

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, caller domain.Caller, tenantID string, accountID string) (*domain.Account, error)

	// ListAccounts returns the tenant's accounts ordered by code, annotated with parent and direct children.
	ListAccounts(ctx context.Context, caller domain.Caller, tenantID string, filter domain.AccountFilter) ([]domain.AccountListItem, error)

	// GetAccountTree returns the hierarchy of the tenant's active accounts.
	GetAccountTree(ctx context.Context, caller domain.Caller, tenantID string) ([]*domain.AccountNode, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateAccountRequest) (*domain.Account, error)

	UpdateAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no journal lines.
	DeleteAccount(ctx context.Context, caller domain.Caller, tenantID string, accountID string) error

	// SeedDefaultAccounts creates the built-in school chart, skipping codes that already exist.
	SeedDefaultAccounts(ctx context.Context, caller domain.Caller, tenantID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
