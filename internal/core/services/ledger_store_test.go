package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memoryLedger is an in-memory stand-in for the Postgres repositories. WithTx runs one
// transaction at a time and restores a snapshot when fn fails.
type memoryLedger struct {
	txMu sync.Mutex
	mu   sync.Mutex

	accounts  map[string]domain.Account
	periods   map[string]domain.FiscalPeriod
	entries   map[string]domain.JournalEntry
	sequences map[string]int64

	txLog []portsrepo.TxOptions // options of every WithTx call, in order
}

var (
	_ portsrepo.AccountRepositoryFacade      = (*memoryLedger)(nil)
	_ portsrepo.FiscalPeriodRepositoryFacade = (*memoryLedger)(nil)
	_ portsrepo.JournalRepositoryFacade      = (*memoryLedger)(nil)
	_ portsrepo.ReportingRepository          = (*memoryLedger)(nil)
	_ portsrepo.LedgerTx                     = (*memoryLedger)(nil)
)

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		accounts:  map[string]domain.Account{},
		periods:   map[string]domain.FiscalPeriod{},
		entries:   map[string]domain.JournalEntry{},
		sequences: map[string]int64{},
	}
}

func (m *memoryLedger) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      m,
		FiscalPeriodRepo: m,
		JournalRepo:      m,
		ReportingRepo:    m,
	}
}

// lastTxOptions returns the options of the most recent WithTx call.
func (m *memoryLedger) lastTxOptions() portsrepo.TxOptions {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	if len(m.txLog) == 0 {
		return portsrepo.TxOptions{}
	}
	return m.txLog[len(m.txLog)-1]
}

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalEntryLine(nil), e.Lines...)
	return e
}

type ledgerSnapshot struct {
	accounts  map[string]domain.Account
	periods   map[string]domain.FiscalPeriod
	entries   map[string]domain.JournalEntry
	sequences map[string]int64
}

func (m *memoryLedger) snapshot() ledgerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := ledgerSnapshot{
		accounts:  make(map[string]domain.Account, len(m.accounts)),
		periods:   make(map[string]domain.FiscalPeriod, len(m.periods)),
		entries:   make(map[string]domain.JournalEntry, len(m.entries)),
		sequences: make(map[string]int64, len(m.sequences)),
	}
	for k, v := range m.accounts {
		s.accounts[k] = v
	}
	for k, v := range m.periods {
		s.periods[k] = v
	}
	for k, v := range m.entries {
		s.entries[k] = copyEntry(v)
	}
	for k, v := range m.sequences {
		s.sequences[k] = v
	}
	return s
}

func (m *memoryLedger) restore(s ledgerSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts, m.periods, m.entries, m.sequences = s.accounts, s.periods, s.entries, s.sequences
}

// WithTx implements portsrepo.TransactionManager.
func (m *memoryLedger) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error, opts ...portsrepo.TxOption) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.txLog = append(m.txLog, portsrepo.ApplyTxOptions(opts...))
	snap := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// --- accounts ---

func (m *memoryLedger) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (m *memoryLedger) FindAccountByCode(_ context.Context, tenantID string, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.TenantID == tenantID && acc.Code == code {
			return &acc, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryLedger) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := m.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memoryLedger) ListAccounts(_ context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Account{}
	for _, acc := range m.accounts {
		if acc.TenantID != tenantID {
			continue
		}
		if filter.AccountType != nil && acc.AccountType != *filter.AccountType {
			continue
		}
		if filter.IsActive != nil && acc.IsActive != *filter.IsActive {
			continue
		}
		if filter.ParentAccountID != nil && acc.ParentAccountID != *filter.ParentAccountID {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memoryLedger) CountChildAccounts(_ context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, acc := range m.accounts {
		if acc.ParentAccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (m *memoryLedger) HasJournalLines(_ context.Context, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memoryLedger) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.TenantID == account.TenantID && acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *memoryLedger) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Name = account.Name
	stored.NameEn = account.NameEn
	stored.Description = account.Description
	stored.IsActive = account.IsActive
	stored.LastUpdatedAt = account.LastUpdatedAt
	stored.LastUpdatedBy = account.LastUpdatedBy
	m.accounts[account.AccountID] = stored
	return nil
}

func (m *memoryLedger) DeleteAccount(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.accounts, accountID)
	return nil
}

func (m *memoryLedger) LockAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return m.FindAccountsByIDs(ctx, accountIDs)
}

func (m *memoryLedger) ApplyBalanceChanges(_ context.Context, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, delta := range changes {
		acc, ok := m.accounts[id]
		if !ok {
			return apperrors.ErrNotFound
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		m.accounts[id] = acc
	}
	return nil
}

// --- fiscal periods ---

func (m *memoryLedger) FindPeriodByID(_ context.Context, periodID string) (*domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.periods[periodID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (m *memoryLedger) FindOverlappingPeriods(_ context.Context, tenantID string, start, end time.Time) ([]domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.FiscalPeriod{}
	for _, p := range m.periods {
		if p.TenantID == tenantID && p.Overlaps(start, end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryLedger) ListPeriods(_ context.Context, tenantID string) ([]domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.FiscalPeriod{}
	for _, p := range m.periods {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memoryLedger) SavePeriod(_ context.Context, period domain.FiscalPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.TenantID == period.TenantID && p.Overlaps(period.StartDate, period.EndDate) {
			return apperrors.ErrDuplicate
		}
	}
	m.periods[period.FiscalPeriodID] = period
	return nil
}

func (m *memoryLedger) LockPeriodForShare(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return m.FindPeriodByID(ctx, periodID)
}

func (m *memoryLedger) LockPeriodByDateForShare(_ context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.TenantID == tenantID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryLedger) LockPeriodForUpdate(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return m.FindPeriodByID(ctx, periodID)
}

func (m *memoryLedger) UpdatePeriodStatus(_ context.Context, period domain.FiscalPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.periods[period.FiscalPeriodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Status = period.Status
	stored.ClosedAt = period.ClosedAt
	stored.ClosedBy = period.ClosedBy
	stored.LastUpdatedAt = period.LastUpdatedAt
	stored.LastUpdatedBy = period.LastUpdatedBy
	m.periods[period.FiscalPeriodID] = stored
	return nil
}

// --- journal entries ---

func (m *memoryLedger) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e = copyEntry(e)
	return &e, nil
}

// entryBefore orders entries by entry date DESC, id DESC.
func entryBefore(a, b domain.JournalEntry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.After(b.EntryDate)
	}
	return a.JournalEntryID > b.JournalEntryID
}

func (m *memoryLedger) ListJournalEntries(_ context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, after *domain.JournalEntryCursor) ([]domain.JournalEntry, *domain.JournalEntryCursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []domain.JournalEntry{}
	for _, e := range m.entries {
		if e.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.ReferenceType != "" && e.ReferenceType != filter.ReferenceType {
			continue
		}
		if filter.StartDate != nil && e.EntryDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.EntryDate.After(*filter.EndDate) {
			continue
		}
		if after != nil && !entryBefore(e, domain.JournalEntry{EntryDate: after.EntryDate, JournalEntryID: after.JournalEntryID}) {
			continue
		}
		matched = append(matched, copyEntry(e))
	}
	sort.Slice(matched, func(i, j int) bool { return entryBefore(matched[i], matched[j]) })
	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	return page, &domain.JournalEntryCursor{EntryDate: last.EntryDate, JournalEntryID: last.JournalEntryID}, nil
}

func (m *memoryLedger) NextEntrySequence(_ context.Context, tenantID string, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s/%d", tenantID, year)
	m.sequences[key]++
	return m.sequences[key], nil
}

func (m *memoryLedger) InsertJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.TenantID == entry.TenantID && e.EntryNumber == entry.EntryNumber {
			return apperrors.ErrDuplicate
		}
	}
	m.entries[entry.JournalEntryID] = copyEntry(entry)
	return nil
}

func (m *memoryLedger) LockJournalEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return m.FindJournalEntryByID(ctx, entryID)
}

func (m *memoryLedger) UpdateJournalEntryHeader(_ context.Context, entry domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.entries[entry.JournalEntryID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Description = entry.Description
	stored.Status = entry.Status
	stored.PostedAt = entry.PostedAt
	stored.PostedBy = entry.PostedBy
	stored.ReversedAt = entry.ReversedAt
	stored.ReversedByEntryID = entry.ReversedByEntryID
	stored.LastUpdatedAt = entry.LastUpdatedAt
	stored.LastUpdatedBy = entry.LastUpdatedBy
	m.entries[entry.JournalEntryID] = stored
	return nil
}

func (m *memoryLedger) DeleteJournalEntry(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entryID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.entries, entryID)
	return nil
}

func (m *memoryLedger) CountEntriesInRange(_ context.Context, tenantID string, status domain.JournalStatus, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.Status == status && !e.EntryDate.Before(start) && !e.EntryDate.After(end) {
			n++
		}
	}
	return n, nil
}

// --- reporting ---

func qualifies(e domain.JournalEntry) bool {
	return e.Status == domain.Posted && e.ReversalOfEntryID == nil
}

func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}

func (m *memoryLedger) GetAccountActivity(_ context.Context, tenantID string, from, to *time.Time) ([]domain.AccountActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byAccount := map[string]*domain.AccountActivity{}
	out := []*domain.AccountActivity{}
	for _, acc := range m.accounts {
		if acc.TenantID != tenantID {
			continue
		}
		a := &domain.AccountActivity{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			IsActive:    acc.IsActive,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		byAccount[acc.AccountID] = a
		out = append(out, a)
	}
	for _, e := range m.entries {
		if e.TenantID != tenantID || !qualifies(e) || !inRange(e.EntryDate, from, to) {
			continue
		}
		for _, l := range e.Lines {
			if a, ok := byAccount[l.AccountID]; ok {
				a.Debit = a.Debit.Add(l.Debit)
				a.Credit = a.Credit.Add(l.Credit)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	result := make([]domain.AccountActivity, len(out))
	for i, a := range out {
		result[i] = *a
	}
	return result, nil
}

func (m *memoryLedger) GetLedgerPage(_ context.Context, accountID string, q domain.LedgerQuery) (*domain.LedgerPageRows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page := &domain.LedgerPageRows{Rows: []domain.LedgerLineRow{}, PriorDebit: decimal.Zero, PriorCredit: decimal.Zero}
	lines := []domain.LedgerLineRow{}
	for _, e := range m.entries {
		if !qualifies(e) || (q.EndDate != nil && e.EntryDate.After(*q.EndDate)) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			if q.StartDate != nil && e.EntryDate.Before(*q.StartDate) {
				page.PriorDebit = page.PriorDebit.Add(l.Debit)
				page.PriorCredit = page.PriorCredit.Add(l.Credit)
				continue
			}
			desc := l.Description
			if strings.TrimSpace(desc) == "" {
				desc = e.Description
			}
			lines = append(lines, domain.LedgerLineRow{
				JournalEntryID: e.JournalEntryID,
				EntryNumber:    e.EntryNumber,
				EntryDate:      e.EntryDate,
				Description:    desc,
				LineNumber:     l.LineNumber,
				Debit:          l.Debit,
				Credit:         l.Credit,
			})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.JournalEntryID != b.JournalEntryID {
			return a.JournalEntryID < b.JournalEntryID
		}
		return a.LineNumber < b.LineNumber
	})
	page.Total = len(lines)
	for i, l := range lines {
		switch {
		case i < q.Offset:
			page.PriorDebit = page.PriorDebit.Add(l.Debit)
			page.PriorCredit = page.PriorCredit.Add(l.Credit)
		case len(page.Rows) < q.Limit:
			page.Rows = append(page.Rows, l)
		}
	}
	return page, nil
}
