package dto

import (
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit leg in a create request.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit      decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to create a DRAFT journal entry.
type CreateJournalEntryRequest struct {
	EntryDate     Date                 `json:"entryDate"`
	Description   string               `json:"description" binding:"required"`
	Reference     string               `json:"reference"`
	ReferenceType domain.ReferenceType `json:"referenceType" binding:"required,oneof=INVOICE PAYMENT EXPENSE SALARY REFUND DISCOUNT MANUAL"`
	ReferenceID   string               `json:"referenceID"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,dive"`
}

// UpdateJournalEntryRequest defines the editable fields of a DRAFT entry.
type UpdateJournalEntryRequest struct {
	Description string `json:"description" binding:"required"`
}

// ReverseJournalEntryRequest carries the reason and an optional date for the compensating entry.
type ReverseJournalEntryRequest struct {
	Reason       string `json:"reason" binding:"required"`
	ReversalDate *Date  `json:"reversalDate"` // defaults to today
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status        domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	ReferenceType domain.ReferenceType `form:"referenceType" binding:"omitempty,oneof=INVOICE PAYMENT EXPENSE SALARY REFUND DISCOUNT MANUAL"`
	StartDate     string               `form:"startDate"`
	EndDate       string               `form:"endDate"`
	Limit         int                  `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken     *string              `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry and its lines.
type JournalEntryResponse struct {
	JournalEntryID    string                `json:"journalEntryID"`
	TenantID          string                `json:"tenantID"`
	EntryNumber       string                `json:"entryNumber"`
	EntryDate         Date                  `json:"entryDate"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference,omitempty"`
	ReferenceType     domain.ReferenceType  `json:"referenceType"`
	ReferenceID       string                `json:"referenceID,omitempty"`
	FiscalPeriodID    string                `json:"fiscalPeriodID"`
	Status            domain.JournalStatus  `json:"status"`
	PostedBy          *string               `json:"postedBy,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	ReversedAt        *time.Time            `json:"reversedAt,omitempty"`
	ReversalOfEntryID *string               `json:"reversalOfEntryID,omitempty"`
	TotalDebit        decimal.Decimal       `json:"totalDebit"`
	TotalCredit       decimal.Decimal       `json:"totalCredit"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse is one page of journal entries.
type ListJournalEntriesResponse struct {
	JournalEntries []JournalEntryResponse `json:"journalEntries"`
	NextToken      *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		JournalEntryID:    e.JournalEntryID,
		TenantID:          e.TenantID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         Date{e.EntryDate},
		Description:       e.Description,
		Reference:         e.Reference,
		ReferenceType:     e.ReferenceType,
		ReferenceID:       e.ReferenceID,
		FiscalPeriodID:    e.FiscalPeriodID,
		Status:            e.Status,
		PostedBy:          e.PostedBy,
		PostedAt:          e.PostedAt,
		ReversedByEntryID: e.ReversedByEntryID,
		ReversedAt:        e.ReversedAt,
		ReversalOfEntryID: e.ReversalOfEntryID,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
