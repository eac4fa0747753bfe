package services

import (
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache may be nil, in which case reports are built on every request.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.ReportCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithDefaultCurrency(cfg.DefaultCurrency),
		WithAccountReportCache(cache),
	)

	journal := NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		WithJournalReportCache(cache),
	)
	container.Journal = journal

	// Closing a period runs the journal engine's draft check inside the close transaction.
	container.FiscalPeriod = NewFiscalPeriodService(
		repos.FiscalPeriodRepo,
		repos.JournalRepo,
		WithPeriodCloseValidator(journal),
	)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.FiscalPeriodRepo,
		repos.AccountRepo,
		WithReportCache(cache, cfg.ReportCacheTTL),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)
	_ portssvc.JournalSvcFacade      = (*journalService)(nil)
)
