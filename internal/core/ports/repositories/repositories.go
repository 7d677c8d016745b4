package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo OrganizationRepositoryFacade
	AccountRepo      AccountRepositoryWithTx
	EntryRepo        EntryRepositoryWithTx
	PeriodRepo       PeriodRepositoryWithTx
	FiscalYearRepo   FiscalYearRepositoryWithTx
	RuleRepo         RuleRepositoryFacade
	AuditRepo        AuditRecorder
}
