package domain

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

// ReferenceType names the kind of business event an entry records.
type ReferenceType string

const (
	RefInvoice  ReferenceType = "INVOICE"
	RefPayment  ReferenceType = "PAYMENT"
	RefExpense  ReferenceType = "EXPENSE"
	RefSalary   ReferenceType = "SALARY"
	RefRefund   ReferenceType = "REFUND"
	RefDiscount ReferenceType = "DISCOUNT"
	RefManual   ReferenceType = "MANUAL"
)

// IsValid reports whether r is a known reference type.
func (r ReferenceType) IsValid() bool {
	switch r {
	case RefInvoice, RefPayment, RefExpense, RefSalary, RefRefund, RefDiscount, RefManual:
		return true
	}
	return false
}

// JournalEntry is the header of a balanced double-entry posting.
type JournalEntry struct {
	JournalEntryID    string             `json:"journalEntryID"` // UUIDv7, sorts by insertion
	TenantID          string             `json:"tenantID"`
	EntryNumber       string             `json:"entryNumber"` // JE-{year}-{seq}
	EntryDate         time.Time          `json:"entryDate"`
	Description       string             `json:"description"`
	Reference         string             `json:"reference,omitempty"`
	ReferenceType     ReferenceType      `json:"referenceType"`
	ReferenceID       string             `json:"referenceID,omitempty"`
	FiscalPeriodID    string             `json:"fiscalPeriodID"`
	Status            JournalStatus      `json:"status"`
	PostedBy          *string            `json:"postedBy,omitempty"`
	PostedAt          *time.Time         `json:"postedAt,omitempty"`
	ReversedByEntryID *string            `json:"reversedByEntryID,omitempty"`
	ReversedAt        *time.Time         `json:"reversedAt,omitempty"`
	ReversalOfEntryID *string            `json:"reversalOfEntryID,omitempty"`
	TotalDebit        decimal.Decimal    `json:"totalDebit"`
	TotalCredit       decimal.Decimal    `json:"totalCredit"`
	Lines             []JournalEntryLine `json:"lines"`
	AuditFields
}

// IsReversal reports whether the entry compensates another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfEntryID != nil
}

// JournalEntryLine is one debit or credit leg of an entry.
type JournalEntryLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode,omitempty"`
	AccountName    string          `json:"accountName,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Description    string          `json:"description,omitempty"`
	LineNumber     int             `json:"lineNumber"`
}

// JournalEntryFilter narrows ListJournalEntries. Zero values are ignored.
type JournalEntryFilter struct {
	Status        JournalStatus
	ReferenceType ReferenceType
	StartDate     *time.Time
	EndDate       *time.Time
}

// JournalEntryCursor is the keyset position for listing (entryDate DESC, id DESC).
type JournalEntryCursor struct {
	EntryDate      time.Time
	JournalEntryID string
}
