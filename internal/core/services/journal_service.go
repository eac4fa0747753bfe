package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/utils/accounting"
	"github.com/SscSPs/school_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

var (
	ErrPeriodClosed         = fmt.Errorf("%w: fiscal period is closed", apperrors.ErrInvalidState)
	ErrNoPeriodForDate      = fmt.Errorf("%w: no fiscal period covers the entry date", apperrors.ErrValidation)
	ErrOnlyDraftUpdate      = fmt.Errorf("%w: can only update draft entries", apperrors.ErrInvalidState)
	ErrOnlyDraftDelete      = fmt.Errorf("%w: can only delete draft entries", apperrors.ErrInvalidState)
	ErrOnlyDraftPost        = fmt.Errorf("%w: only draft entries can be posted", apperrors.ErrInvalidState)
	ErrOnlyPostedReverse    = fmt.Errorf("%w: only posted entries can be reversed", apperrors.ErrInvalidState)
	ErrReverseReversal      = fmt.Errorf("%w: a reversing entry cannot itself be reversed", apperrors.ErrInvalidState)
	ErrReasonRequired       = fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	ErrDescriptionMissing   = fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
	ErrDraftsBlockClose     = fmt.Errorf("%w: draft journal entries are dated inside the period; post or delete them first", apperrors.ErrInvalidState)
	ErrInactiveAccount      = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	ErrAccountNotInTenant   = fmt.Errorf("%w: account not found in this school", apperrors.ErrValidation)
	ErrInvalidReferenceType = fmt.Errorf("%w: invalid reference type", apperrors.ErrValidation)
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// journalService is the journal entry engine: it owns the DRAFT -> POSTED -> REVERSED
// state machine and the balance invariant.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	reportCache portsrepo.ReportCache
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalReportCache invalidates cached reports after posting and reversal.
func WithJournalReportCache(cache portsrepo.ReportCache) JournalServiceOption {
	return func(s *journalService) {
		s.reportCache = cache
	}
}

// WithJournalClock overrides the clock used for posting timestamps and default reversal dates.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.Now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		BaseService: newBaseService(),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func entryNumber(year int, seq int64) string {
	return fmt.Sprintf("JE-%d-%06d", year, seq)
}

// resolveOpenPeriod share-locks the period covering date and requires it to be open.
func resolveOpenPeriod(ctx context.Context, tx portsrepo.LedgerTx, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := tx.LockPeriodByDateForShare(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w (%s)", ErrNoPeriodForDate, date.Format(dto.DateLayout))
		}
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: '%s'", ErrPeriodClosed, period.Name)
	}
	return period, nil
}

// lockEntry loads and locks an entry, then applies the tenant guard to it.
func (s *journalService) lockEntry(ctx context.Context, tx portsrepo.LedgerTx, caller domain.Caller, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := tx.LockJournalEntryForUpdate(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound("journal entry")
		}
		return nil, err
	}
	if err := s.AuthorizeResource(ctx, caller, tenantID, entry.TenantID, "journal entry"); err != nil {
		return nil, err
	}
	return entry, nil
}

// applyPosting locks the entry's accounts in id order and applies its balance deltas.
func (s *journalService) applyPosting(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, userID string, now time.Time, requireActive bool) error {
	accounts, err := tx.LockAccountsForUpdate(ctx, accounting.DistinctAccountIDs(entry.Lines))
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	for _, l := range entry.Lines {
		acc, ok := accounts[l.AccountID]
		if !ok || acc.TenantID != entry.TenantID {
			return fmt.Errorf("%w: %s", ErrAccountNotInTenant, l.AccountID)
		}
		if requireActive && !acc.IsActive {
			return fmt.Errorf("%w: %s", ErrInactiveAccount, acc.Code)
		}
	}
	changes, err := accounting.BalanceChanges(entry.Lines, accounts)
	if err != nil {
		return err
	}
	if err := tx.ApplyBalanceChanges(ctx, changes, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func (s *journalService) CreateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionMissing
	}
	refType := req.ReferenceType
	if refType == "" {
		refType = domain.RefManual
	}
	if !refType.IsValid() {
		return nil, fmt.Errorf("%w '%s'", ErrInvalidReferenceType, req.ReferenceType)
	}
	if req.EntryDate.IsZero() {
		return nil, fmt.Errorf("%w: entryDate is required", apperrors.ErrValidation)
	}
	entryDate := domain.DateOnly(req.EntryDate.Time)

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			LineNumber:  i + 1,
		}
	}
	totalDebit, totalCredit, err := accounting.ValidateLines(lines)
	if err != nil {
		s.LogWarn(ctx, "Journal entry rejected", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accounting.DistinctAccountIDs(lines))
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for journal entry")
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	for i := range lines {
		acc, ok := accounts[lines[i].AccountID]
		if !ok || acc.TenantID != tenantID {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotInTenant, lines[i].AccountID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrInactiveAccount, acc.Code)
		}
		lines[i].AccountCode = acc.Code
		lines[i].AccountName = acc.Name
	}

	entryID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate journal entry id: %w", err)
	}
	now := s.now()
	entry := domain.JournalEntry{
		JournalEntryID: entryID.String(),
		TenantID:       tenantID,
		EntryDate:      entryDate,
		Description:    description,
		Reference:      req.Reference,
		ReferenceType:  refType,
		ReferenceID:    req.ReferenceID,
		Status:         domain.Draft,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].JournalEntryID = entry.JournalEntryID
	}
	entry.Lines = lines

	err = s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		period, err := resolveOpenPeriod(ctx, tx, tenantID, entryDate)
		if err != nil {
			return err
		}
		entry.FiscalPeriodID = period.FiscalPeriodID

		seq, err := tx.NextEntrySequence(ctx, tenantID, entryDate.Year())
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		entry.EntryNumber = entryNumber(entryDate.Year(), seq)

		return tx.InsertJournalEntry(ctx, entry)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to create journal entry", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("tenant_id", tenantID))
	return &entry, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound("journal entry")
		}
		s.LogError(ctx, err, "Failed to get journal entry", slog.String("journal_entry_id", entryID))
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	if err := s.AuthorizeResource(ctx, caller, tenantID, entry.TenantID, "journal entry"); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, caller domain.Caller, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := domain.JournalEntryFilter{Status: params.Status, ReferenceType: params.ReferenceType}
	if params.StartDate != "" {
		d, err := dto.ParseDate(params.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: startDate: %v", apperrors.ErrValidation, err)
		}
		filter.StartDate = &d
	}
	if params.EndDate != "" {
		d, err := dto.ParseDate(params.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: endDate: %v", apperrors.ErrValidation, err)
		}
		filter.EndDate = &d
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)
	}

	var after *domain.JournalEntryCursor
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := decodeEntryCursor(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = cursor
	}

	entries, next, err := s.journalRepo.ListJournalEntries(ctx, tenantID, filter, limit, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := &dto.ListJournalEntriesResponse{JournalEntries: dto.ToJournalEntryResponses(entries)}
	if next != nil {
		token := encodeEntryCursor(*next)
		resp.NextToken = &token
	}
	return resp, nil
}

func encodeEntryCursor(c domain.JournalEntryCursor) string {
	return pagination.EncodeMultiFieldToken(c.EntryDate.Format(dto.DateLayout), c.JournalEntryID)
}

func decodeEntryCursor(token string) (*domain.JournalEntryCursor, error) {
	fields, err := pagination.DecodeMultiFieldToken(token)
	if err != nil {
		return nil, err
	}
	if len(fields) != 2 || fields[1] == "" {
		return nil, fmt.Errorf("invalid pagination token format (fields)")
	}
	date, err := time.Parse(dto.DateLayout, fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return &domain.JournalEntryCursor{EntryDate: date, JournalEntryID: fields[1]}, nil
}

func (s *journalService) UpdateJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionMissing
	}

	var updated domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := s.lockEntry(ctx, tx, caller, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return ErrOnlyDraftUpdate
		}
		period, err := tx.LockPeriodForShare(ctx, entry.FiscalPeriodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return fmt.Errorf("%w: '%s'", ErrPeriodClosed, period.Name)
		}

		entry.Description = description
		entry.LastUpdatedAt = s.now()
		entry.LastUpdatedBy = caller.UserID
		if err := tx.UpdateJournalEntryHeader(ctx, *entry); err != nil {
			return err
		}
		updated = *entry
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to update journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("journal_entry_id", entryID))
	return &updated, nil
}

func (s *journalService) PostJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	var posted domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := s.lockEntry(ctx, tx, caller, tenantID, entryID)
		if err != nil {
			return err
		}
		period, err := tx.LockPeriodForShare(ctx, entry.FiscalPeriodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return fmt.Errorf("%w: '%s'", ErrPeriodClosed, period.Name)
		}
		if entry.Status != domain.Draft {
			return fmt.Errorf("%w (status %s)", ErrOnlyDraftPost, entry.Status)
		}
		if _, _, err := accounting.ValidateLines(entry.Lines); err != nil {
			return err
		}

		now := s.now()
		if err := s.applyPosting(ctx, tx, entry, caller.UserID, now, true); err != nil {
			return err
		}

		postedBy := caller.UserID
		entry.Status = domain.Posted
		entry.PostedAt = &now
		entry.PostedBy = &postedBy
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = caller.UserID
		if err := tx.UpdateJournalEntryHeader(ctx, *entry); err != nil {
			return err
		}
		posted = *entry
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to post journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	s.InvalidateReports(ctx, s.reportCache, tenantID)
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_entry_id", entryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.String("posted_by", caller.UserID))
	return &posted, nil
}

func (s *journalService) ReverseJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string, req dto.ReverseJournalEntryRequest) (*domain.JournalEntry, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return nil, err
	}

	now := s.now()
	reversalDate := domain.DateOnly(now)
	if req.ReversalDate != nil && !req.ReversalDate.IsZero() {
		reversalDate = domain.DateOnly(req.ReversalDate.Time)
	}

	var reversal domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := s.lockEntry(ctx, tx, caller, tenantID, entryID)
		if err != nil {
			return err
		}
		if original.Status != domain.Posted {
			return fmt.Errorf("%w (status %s)", ErrOnlyPostedReverse, original.Status)
		}
		if original.IsReversal() {
			return ErrReverseReversal
		}

		period, err := resolveOpenPeriod(ctx, tx, tenantID, reversalDate)
		if err != nil {
			return err
		}
		seq, err := tx.NextEntrySequence(ctx, tenantID, reversalDate.Year())
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		reversalID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate journal entry id: %w", err)
		}

		actor := caller.UserID
		originalID := original.JournalEntryID
		reversal = domain.JournalEntry{
			JournalEntryID:    reversalID.String(),
			TenantID:          original.TenantID,
			EntryNumber:       entryNumber(reversalDate.Year(), seq),
			EntryDate:         reversalDate,
			Description:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
			Reference:         original.Reference,
			ReferenceType:     original.ReferenceType,
			ReferenceID:       original.ReferenceID,
			FiscalPeriodID:    period.FiscalPeriodID,
			Status:            domain.Posted,
			PostedBy:          &actor,
			PostedAt:          &now,
			ReversalOfEntryID: &originalID,
			TotalDebit:        original.TotalCredit,
			TotalCredit:       original.TotalDebit,
			Lines:             accounting.MirrorLines(original.Lines),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		for i := range reversal.Lines {
			reversal.Lines[i].LineID = uuid.NewString()
			reversal.Lines[i].JournalEntryID = reversal.JournalEntryID
		}

		if err := tx.InsertJournalEntry(ctx, reversal); err != nil {
			return err
		}
		// Deactivated accounts still take the compensating posting.
		if err := s.applyPosting(ctx, tx, &reversal, actor, now, false); err != nil {
			return err
		}

		reversalRef := reversal.JournalEntryID
		original.Status = domain.Reversed
		original.ReversedByEntryID = &reversalRef
		original.ReversedAt = &now
		original.LastUpdatedAt = now
		original.LastUpdatedBy = actor
		return tx.UpdateJournalEntryHeader(ctx, *original)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to reverse journal entry", slog.String("journal_entry_id", entryID))
		return nil, err
	}

	s.InvalidateReports(ctx, s.reportCache, tenantID)
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.JournalEntryID),
		slog.String("reason", reason))
	return &reversal, nil
}

func (s *journalService) DeleteJournalEntry(ctx context.Context, caller domain.Caller, tenantID string, entryID string) error {
	if err := s.AuthorizeTenant(ctx, caller, tenantID); err != nil {
		return err
	}
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		entry, err := s.lockEntry(ctx, tx, caller, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.Draft {
			return ErrOnlyDraftDelete
		}
		return tx.DeleteJournalEntry(ctx, entryID)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to delete journal entry", slog.String("journal_entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("journal_entry_id", entryID))
	return nil
}

// ValidatePeriodClose blocks the close while draft entries are dated inside the period.
func (s *journalService) ValidatePeriodClose(ctx context.Context, tx portsrepo.LedgerTx, period domain.FiscalPeriod) error {
	drafts, err := tx.CountEntriesInRange(ctx, period.TenantID, domain.Draft, period.StartDate, period.EndDate)
	if err != nil {
		return fmt.Errorf("failed to check draft entries: %w", err)
	}
	if drafts > 0 {
		return fmt.Errorf("%w (%d found)", ErrDraftsBlockClose, drafts)
	}
	return nil
}

// logWriteFailure logs rule violations at warn and everything else at error.
func (s *journalService) logWriteFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidState) ||
		errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrForbidden) {
		args := append([]any{slog.String("error", err.Error())}, keyvals...)
		s.LogWarn(ctx, msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
