package dto

import (
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required,max=255"`
	NameEn          string             `json:"nameEn" binding:"max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`
	CurrencyCode    string             `json:"currencyCode" binding:"omitempty,len=3"` // defaults to the configured currency
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	NameEn      *string `json:"nameEn" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType *domain.AccountType `form:"type" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsActive    *bool               `form:"isActive"`
	ParentID    *string             `form:"parentId"`
}

// ToFilter converts query params to the domain filter.
func (p ListAccountsParams) ToFilter() domain.AccountFilter {
	return domain.AccountFilter{
		AccountType:     p.AccountType,
		IsActive:        p.IsActive,
		ParentAccountID: p.ParentID,
	}
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	TenantID        string             `json:"tenantID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	NameEn          string             `json:"nameEn,omitempty"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	Level           int                `json:"level"`
	CurrencyCode    string             `json:"currencyCode"`
	Description     string             `json:"description"`
	IsActive        bool               `json:"isActive"`
	IsSystem        bool               `json:"isSystem"`
	Balance         decimal.Decimal    `json:"balance"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// AccountListItemResponse is an account annotated with its parent and direct children.
type AccountListItemResponse struct {
	AccountResponse
	Parent   *domain.AccountRef       `json:"parent,omitempty"`
	Children []domain.AccountChildRef `json:"children"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		TenantID:        acc.TenantID,
		Code:            acc.Code,
		Name:            acc.Name,
		NameEn:          acc.NameEn,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		CurrencyCode:    acc.CurrencyCode,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		IsSystem:        acc.IsSystem,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts annotated accounts to their response DTOs.
func ToListAccountResponse(items []domain.AccountListItem) []AccountListItemResponse {
	res := make([]AccountListItemResponse, len(items))
	for i := range items {
		children := items[i].Children
		if children == nil {
			children = []domain.AccountChildRef{}
		}
		res[i] = AccountListItemResponse{
			AccountResponse: ToAccountResponse(&items[i].Account),
			Parent:          items[i].Parent,
			Children:        children,
		}
	}
	return res
}

// ToAccountResponses converts plain accounts to their response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
