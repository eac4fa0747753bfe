package domain

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

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a node in a tenant's chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	TenantID        string          `json:"tenantID"`
	Code            string          `json:"code"` // unique per tenant
	Name            string          `json:"name"`
	NameEn          string          `json:"nameEn,omitempty"` // optional secondary-language name
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Level           int             `json:"level"` // 1 for roots, parent.level+1 otherwise
	CurrencyCode    string          `json:"currencyCode"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	IsSystem        bool            `json:"isSystem"`
	Balance         decimal.Decimal `json:"balance"` // cache of posted activity, see JournalEntry posting
	AuditFields
}

// AccountFilter narrows ListAccounts. Nil fields are ignored.
type AccountFilter struct {
	AccountType     *AccountType
	IsActive        *bool
	ParentAccountID *string
}

// AccountRef is the short form used when annotating a parent.
type AccountRef struct {
	AccountID string `json:"accountID"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}

// AccountChildRef is the short form used when annotating direct children.
type AccountChildRef struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountListItem is an account with its parent and direct children resolved.
type AccountListItem struct {
	Account
	Parent   *AccountRef       `json:"parent,omitempty"`
	Children []AccountChildRef `json:"children"`
}
