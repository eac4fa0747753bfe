package services

import "github.com/SscSPs/school_ledger/internal/core/domain"

type chartTemplate struct {
	Code        string
	Name        string
	AccountType domain.AccountType
	ParentCode  string
	Description string
}

// defaultSchoolChart is the built-in chart seeded for every school. Parents precede children.
func defaultSchoolChart() []chartTemplate {
	return []chartTemplate{
		{Code: "1000", Name: "Assets", AccountType: domain.Asset},
		{Code: "1100", Name: "Cash", AccountType: domain.Asset, ParentCode: "1000", Description: "Cash on hand"},
		{Code: "1200", Name: "Bank", AccountType: domain.Asset, ParentCode: "1000", Description: "School bank account"},
		{Code: "1300", Name: "Accounts Receivable", AccountType: domain.Asset, ParentCode: "1000", Description: "Tuition and fees owed by families"},
		{Code: "2000", Name: "Liabilities", AccountType: domain.Liability},
		{Code: "2100", Name: "Accounts Payable", AccountType: domain.Liability, ParentCode: "2000"},
		{Code: "2200", Name: "Salaries Payable", AccountType: domain.Liability, ParentCode: "2000"},
		{Code: "2300", Name: "Unearned Tuition", AccountType: domain.Liability, ParentCode: "2000", Description: "Tuition received in advance"},
		{Code: "3000", Name: "Equity", AccountType: domain.Equity},
		{Code: "3100", Name: "Retained Earnings", AccountType: domain.Equity, ParentCode: "3000"},
		{Code: "4000", Name: "Revenue", AccountType: domain.Revenue},
		{Code: "4100", Name: "Tuition Revenue", AccountType: domain.Revenue, ParentCode: "4000"},
		{Code: "4200", Name: "Transportation Fees", AccountType: domain.Revenue, ParentCode: "4000"},
		{Code: "4300", Name: "Other Income", AccountType: domain.Revenue, ParentCode: "4000"},
		{Code: "5000", Name: "Expenses", AccountType: domain.Expense},
		{Code: "5100", Name: "Salaries Expense", AccountType: domain.Expense, ParentCode: "5000"},
		{Code: "5200", Name: "Utilities Expense", AccountType: domain.Expense, ParentCode: "5000"},
		{Code: "5300", Name: "Supplies Expense", AccountType: domain.Expense, ParentCode: "5000"},
		{Code: "5400", Name: "Discounts Given", AccountType: domain.Expense, ParentCode: "5000", Description: "Sibling and scholarship discounts"},
	}
}
