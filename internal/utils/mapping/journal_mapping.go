package mapping

import (
	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/SscSPs/school_ledger/internal/models"
)

// ToModelJournalEntry converts the header of a domain JournalEntry. Lines map separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID:    d.JournalEntryID,
		TenantID:          d.TenantID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		Reference:         nullable(d.Reference),
		ReferenceType:     string(d.ReferenceType),
		ReferenceID:       nullable(d.ReferenceID),
		FiscalPeriodID:    d.FiscalPeriodID,
		Status:            models.JournalStatus(d.Status),
		PostedBy:          d.PostedBy,
		PostedAt:          d.PostedAt,
		ReversedByEntryID: d.ReversedByEntryID,
		ReversedAt:        d.ReversedAt,
		ReversalOfEntryID: d.ReversalOfEntryID,
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID:    m.JournalEntryID,
		TenantID:          m.TenantID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         domain.DateOnly(m.EntryDate),
		Description:       m.Description,
		Reference:         deref(m.Reference),
		ReferenceType:     domain.ReferenceType(m.ReferenceType),
		ReferenceID:       deref(m.ReferenceID),
		FiscalPeriodID:    m.FiscalPeriodID,
		Status:            domain.JournalStatus(m.Status),
		PostedBy:          m.PostedBy,
		PostedAt:          m.PostedAt,
		ReversedByEntryID: m.ReversedByEntryID,
		ReversedAt:        m.ReversedAt,
		ReversalOfEntryID: m.ReversalOfEntryID,
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		AccountID:      d.AccountID,
		AccountCode:    d.AccountCode,
		AccountName:    d.AccountName,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Description:    nullable(d.Description),
		LineNumber:     d.LineNumber,
	}
}

func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		AccountCode:    m.AccountCode,
		AccountName:    m.AccountName,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Description:    deref(m.Description),
		LineNumber:     m.LineNumber,
	}
}
