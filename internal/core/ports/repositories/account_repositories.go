package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its tenant-unique code.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a tenant's accounts ordered by code.
	ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error)

	// CountChildAccounts returns the number of accounts whose parent is accountID.
	CountChildAccounts(ctx context.Context, accountID string) (int, error)

	// HasJournalLines reports whether any journal line, in any status, references the account.
	HasJournalLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's descriptive fields and active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount hard-deletes an account with no history.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountTxOps are the account operations available inside a ledger transaction.
type AccountTxOps interface {
	// LockAccountsForUpdate selects accounts and locks them, in id order, for the rest of the transaction.
	LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChanges adds each delta to the cached account balance.
	ApplyBalanceChanges(ctx context.Context, changes map[string]decimal.Decimal, userID string, now time.Time) error
}
