package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID    string          `db:"journal_entry_id"`
	TenantID          string          `db:"tenant_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Description       string          `db:"description"`
	Reference         *string         `db:"reference"`
	ReferenceType     string          `db:"reference_type"`
	ReferenceID       *string         `db:"reference_id"`
	FiscalPeriodID    string          `db:"fiscal_period_id"`
	Status            JournalStatus   `db:"status"`
	PostedBy          *string         `db:"posted_by"`
	PostedAt          *time.Time      `db:"posted_at"`
	ReversedByEntryID *string         `db:"reversed_by_entry_id"`
	ReversedAt        *time.Time      `db:"reversed_at"`
	ReversalOfEntryID *string         `db:"reversal_of_entry_id"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table, joined with the account's code and name.
type JournalEntryLine struct {
	LineID         string          `db:"line_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	AccountID      string          `db:"account_id"`
	AccountCode    string          `db:"account_code"`
	AccountName    string          `db:"account_name"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Description    *string         `db:"description"`
	LineNumber     int             `db:"line_number"`
}
