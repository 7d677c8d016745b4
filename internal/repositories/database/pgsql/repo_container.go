package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool, accountRepo)
	periodRepo := newPgxPeriodRepository(dbPool)
	fiscalYearRepo := newPgxFiscalYearRepository(dbPool)
	ruleRepo := newPgxRuleRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		AccountRepo:      accountRepo,
		EntryRepo:        entryRepo,
		PeriodRepo:       periodRepo,
		FiscalYearRepo:   fiscalYearRepo,
		RuleRepo:         ruleRepo,
		AuditRepo:        auditRepo,
	}
}
