package mapping

import (
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Code:            d.Code,
		Name:            d.Name,
		NameEn:          nullable(d.NameEn),
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: nullable(d.ParentAccountID),
		Level:           d.Level,
		CurrencyCode:    d.CurrencyCode,
		Description:     nullable(d.Description),
		IsActive:        d.IsActive,
		IsSystem:        d.IsSystem,
		Balance:         d.Balance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		NameEn:          deref(m.NameEn),
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: deref(m.ParentAccountID),
		Level:           m.Level,
		CurrencyCode:    m.CurrencyCode,
		Description:     deref(m.Description),
		IsActive:        m.IsActive,
		IsSystem:        m.IsSystem,
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
