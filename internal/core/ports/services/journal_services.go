package services

import (
	"context"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries returns a page ordered by entry date DESC, id DESC.
	ListJournalEntries(ctx context.Context, caller domain.Caller, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the journal entry state machine: DRAFT -> POSTED -> REVERSED.
type JournalWriterSvc interface {
	CreateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a compensating entry and returns it.
	ReverseJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.ReverseJournalEntryRequest) (*domain.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) error
}

// PeriodCloseValidator checks, inside the closing transaction, that a period may be closed.
type PeriodCloseValidator interface {
	ValidatePeriodClose(ctx context.Context, tx portsrepo.LedgerTx, period domain.FiscalPeriod) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PeriodCloseValidator
}
