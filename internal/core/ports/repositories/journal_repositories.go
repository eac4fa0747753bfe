package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry with its lines ordered by line number.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries returns a page ordered by entry date DESC, id DESC, with lines and
	// account summaries, and the cursor of the next page (nil when exhausted).
	ListJournalEntries(ctx context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, after *domain.JournalEntryCursor) ([]domain.JournalEntry, *domain.JournalEntryCursor, error)
}

// JournalRepositoryFacade combines journal reads with the ledger unit of work.
type JournalRepositoryFacade interface {
	JournalReader
	TransactionManager
}

// JournalTxOps are the journal operations available inside a ledger transaction.
type JournalTxOps interface {
	// NextEntrySequence increments and returns the tenant's entry counter for year.
	NextEntrySequence(ctx context.Context, tenantID string, year int) (int64, error)

	// InsertJournalEntry persists the header and all its lines.
	InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// LockJournalEntryForUpdate loads an entry with its lines and locks the header row.
	LockJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// UpdateJournalEntryHeader persists description, status and the posting/reversal links.
	UpdateJournalEntryHeader(ctx context.Context, entry domain.JournalEntry) error

	// DeleteJournalEntry removes a header and its lines.
	DeleteJournalEntry(ctx context.Context, entryID string) error

	// CountEntriesInRange counts the tenant's entries with status dated within [start, end].
	CountEntriesInRange(ctx context.Context, tenantID string, status domain.JournalStatus, start, end time.Time) (int, error)
}
