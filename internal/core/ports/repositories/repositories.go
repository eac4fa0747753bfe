package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	FiscalPeriodRepo FiscalPeriodRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	ReportingRepo    ReportingRepository
}
