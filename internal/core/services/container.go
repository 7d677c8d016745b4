package services

import (
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories and with the
// sibling services it delegates to.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	orgSvc := NewOrganizationService(repos.OrganizationRepo)
	accountSvc := NewAccountService(repos.AccountRepo, orgSvc)
	periodSvc := NewPeriodService(repos.PeriodRepo, repos.FiscalYearRepo, repos.EntryRepo, repos.AuditRepo)
	entrySvc := NewEntryService(repos.EntryRepo, accountSvc, periodSvc, orgSvc, repos.RuleRepo, repos.AuditRepo)
	fiscalYearSvc := NewFiscalYearService(repos.FiscalYearRepo, repos.PeriodRepo, repos.AccountRepo, repos.EntryRepo, repos.AuditRepo, orgSvc, periodSvc)
	ruleSvc := NewRuleService(repos.RuleRepo, repos.AuditRepo)

	return &portssvc.ServiceContainer{
		Organization: orgSvc,
		Account:      accountSvc,
		Entry:        entrySvc,
		Period:       periodSvc,
		FiscalYear:   fiscalYearSvc,
		Rule:         ruleSvc,
	}
}
