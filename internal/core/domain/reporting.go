package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRange bounds a ranged report. Nil bounds are open.
type ReportRange struct {
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	FiscalPeriodID string     `json:"fiscalPeriodID,omitempty"`
}

// AccountActivity is the raw debit/credit aggregate for one account over a range.
type AccountActivity struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	IsActive    bool
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	NetBalance  decimal.Decimal `json:"netBalance"` // signed by the account's normal side
}

// TrialBalanceReport is the trial balance over a range.
type TrialBalanceReport struct {
	StartDate   *time.Time        `json:"startDate,omitempty"`
	EndDate     *time.Time        `json:"endDate,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID,omitempty"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport is revenue minus expense over a range.
type IncomeStatementReport struct {
	StartDate    *time.Time      `json:"startDate,omitempty"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"` // negative for a loss
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"` // includes the computed current earnings line
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// LedgerQuery selects a page of an account ledger.
type LedgerQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// LedgerLineRow is one posted line touching an account, as read from storage.
type LedgerLineRow struct {
	JournalEntryID string
	EntryNumber    string
	EntryDate      time.Time
	Description    string
	LineNumber     int
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// LedgerPageRows is the raw storage result for a ledger page.
// PriorDebit and PriorCredit cover every qualifying line ordered before the first row of the page.
type LedgerPageRows struct {
	Rows        []LedgerLineRow
	PriorDebit  decimal.Decimal
	PriorCredit decimal.Decimal
	Total       int
}

// LedgerLine is a ledger row with its running balance.
type LedgerLine struct {
	JournalEntryID string          `json:"journalEntryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	LineNumber     int             `json:"lineNumber"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is a paginated, chronological view of one account.
type AccountLedger struct {
	Account        AccountRef      `json:"account"`
	AccountType    AccountType     `json:"accountType"`
	StartDate      *time.Time      `json:"startDate,omitempty"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"` // running balance after the last line of the page
	Lines          []LedgerLine    `json:"lines"`
	Total          int             `json:"total"`
	Limit          int             `json:"limit"`
	Offset         int             `json:"offset"`
}
