package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	TenantID        string          `db:"tenant_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	NameEn          *string         `db:"name_en"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID *string         `db:"parent_account_id"` // Nullable
	Level           int             `db:"level"`
	CurrencyCode    string          `db:"currency_code"`
	Description     *string         `db:"description"`
	IsActive        bool            `db:"is_active"`
	IsSystem        bool            `db:"is_system"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
