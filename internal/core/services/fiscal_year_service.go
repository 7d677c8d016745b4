package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
	"github.com/jash90/ledger_posting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrYearDates               = errors.New("fiscal year end date must be after start date")
	ErrYearOverlap             = errors.New("fiscal year overlaps an existing one")
	ErrYearAlreadyClosed       = errors.New("fiscal year is already closed")
	ErrOpenPeriods             = errors.New("fiscal year still has open periods")
	ErrNoRegularPeriods        = errors.New("fiscal year has no regular periods")
	ErrRetainedEarningsInvalid = errors.New("retained earnings account must be an active, postable equity account")
	ErrClosingDateOutsideYear  = errors.New("closing date must fall within the fiscal year")
	ErrNoNextFiscalYear        = errors.New("no subsequent fiscal year exists for opening balances")
	ErrTrialBalance            = errors.New("chart of accounts is out of balance")
)

// The two sides of the trial balance.
var (
	debitNormalTypes  = []domain.AccountType{domain.Asset, domain.Expense, domain.CostOfSales}
	creditNormalTypes = []domain.AccountType{domain.Liability, domain.Equity, domain.Revenue}
)

// fiscalYearService provides fiscal year management and the year-end close.
type fiscalYearService struct {
	fiscalYearRepo portsrepo.FiscalYearRepositoryWithTx
	periodRepo     portsrepo.PeriodRepositoryFacade
	accountRepo    portsrepo.AccountRepositoryFacade
	entryRepo      portsrepo.EntryWriter
	auditRepo      portsrepo.AuditRecorder
	orgSvc         portssvc.OrganizationSvcFacade
	periodSvc      portssvc.PeriodWriterSvc
}

// NewFiscalYearService creates a new FiscalYearService.
func NewFiscalYearService(
	fiscalYearRepo portsrepo.FiscalYearRepositoryWithTx,
	periodRepo portsrepo.PeriodRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	entryRepo portsrepo.EntryWriter,
	auditRepo portsrepo.AuditRecorder,
	orgSvc portssvc.OrganizationSvcFacade,
	periodSvc portssvc.PeriodWriterSvc,
) portssvc.FiscalYearSvcFacade {
	return &fiscalYearService{
		fiscalYearRepo: fiscalYearRepo,
		periodRepo:     periodRepo,
		accountRepo:    accountRepo,
		entryRepo:      entryRepo,
		auditRepo:      auditRepo,
		orgSvc:         orgSvc,
		periodSvc:      periodSvc,
	}
}

// Ensure fiscalYearService implements the portssvc.FiscalYearSvcFacade interface
var _ portssvc.FiscalYearSvcFacade = (*fiscalYearService)(nil)

// GetFiscalYearByID retrieves a specific fiscal year.
func (s *fiscalYearService) GetFiscalYearByID(ctx context.Context, organizationID string, fiscalYearID string) (*domain.FiscalYear, error) {
	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return year, nil
}

// ListFiscalYears retrieves the organization's fiscal years ordered by start date.
func (s *fiscalYearService) ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	return s.fiscalYearRepo.ListFiscalYears(ctx, organizationID)
}

// checkRetainedEarningsAccount verifies the account the close will sweep net
// income into.
func (s *fiscalYearService) checkRetainedEarningsAccount(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", ErrRetainedEarningsInvalid, accountID)
		}
		return nil, fmt.Errorf("failed to find retained earnings account: %w", err)
	}
	if account.OrganizationID != organizationID ||
		account.AccountType != domain.Equity ||
		!account.IsActive || !account.AllowPosting {
		return nil, fmt.Errorf("%w: account %s", ErrRetainedEarningsInvalid, accountID)
	}
	return account, nil
}

// CreateFiscalYear creates a fiscal year and, when requested, its monthly
// periods in the same call.
func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, organizationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, ErrYearDates
	}
	if _, err := s.orgSvc.GetOrganizationByID(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}
	if _, err := s.checkRetainedEarningsAccount(ctx, organizationID, req.RetainedEarningsAccountID); err != nil {
		return nil, err
	}

	overlaps, err := s.fiscalYearRepo.HasOverlappingFiscalYear(ctx, organizationID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check fiscal year overlap: %w", err)
	}
	if overlaps {
		return nil, ErrYearOverlap
	}

	now := time.Now().UTC()
	year := domain.FiscalYear{
		FiscalYearID:              uuid.NewString(),
		OrganizationID:            organizationID,
		Name:                      req.Name,
		StartDate:                 req.StartDate,
		EndDate:                   req.EndDate,
		Status:                    domain.StatusOpen,
		RetainedEarningsAccountID: req.RetainedEarningsAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.fiscalYearRepo.SaveFiscalYear(ctx, year); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}
	logger.Info("Fiscal year created", slog.String("fiscal_year_id", year.FiscalYearID), slog.String("name", year.Name))

	if req.GeneratePeriods {
		if _, err := s.periodSvc.GeneratePeriods(ctx, organizationID, year.FiscalYearID, dto.GeneratePeriodsRequest{}, creatorUserID); err != nil {
			logger.Error("Failed to generate periods for new fiscal year", slog.String("error", err.Error()), slog.String("fiscal_year_id", year.FiscalYearID))
			return nil, fmt.Errorf("fiscal year created but period generation failed: %w", err)
		}
	}

	return &year, nil
}

// CloseFiscalYear runs the year-end close as a single database transaction:
// it locks the year, its periods and the chart of accounts, sweeps every
// income-statement balance into one closing entry against retained earnings,
// closes the remaining periods, flips the year to CLOSED, and optionally
// carries balance-sheet balances forward as opening balances of the next
// year. Any failure rolls back the whole close. A second close of the same
// year is rejected.
func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, organizationID string, fiscalYearID string, req dto.CloseFiscalYearRequest, userID string) (*dto.CloseFiscalYearResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.GetFiscalYearByID(ctx, organizationID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.Status == domain.StatusClosed {
		return nil, fmt.Errorf("%w: %s", ErrYearAlreadyClosed, fiscalYearID)
	}
	if req.ClosingDate.Before(year.StartDate) || req.ClosingDate.After(year.EndDate) {
		return nil, ErrClosingDateOutsideYear
	}

	retained, err := s.checkRetainedEarningsAccount(ctx, organizationID, year.RetainedEarningsAccountID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgSvc.GetOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	// Books that do not balance across the chart point at corrupted data;
	// refuse to sweep them into a closing entry.
	debitSide, err := s.accountRepo.SumBalancesByTypes(ctx, organizationID, debitNormalTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debit-side balances: %w", err)
	}
	creditSide, err := s.accountRepo.SumBalancesByTypes(ctx, organizationID, creditNormalTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to sum credit-side balances: %w", err)
	}
	if !accounting.IsBalanced(debitSide, creditSide) {
		return nil, fmt.Errorf("%w: debit side %s, credit side %s", ErrTrialBalance, debitSide, creditSide)
	}

	var nextYear *domain.FiscalYear
	if req.GenerateOpeningBalances {
		nextYear, err = s.fiscalYearRepo.FindNextFiscalYear(ctx, organizationID, year.EndDate)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, ErrNoNextFiscalYear
			}
			return nil, fmt.Errorf("failed to find next fiscal year: %w", err)
		}
	}

	tx, err := s.fiscalYearRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin close transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.fiscalYearRepo.Rollback(ctx, tx); rbErr != nil {
				logger.Error("Failed to roll back close transaction", slog.String("error", rbErr.Error()), slog.String("fiscal_year_id", fiscalYearID))
			}
		}
	}()

	// Re-read under lock; a concurrent close may have won the race.
	lockedYear, err := s.fiscalYearRepo.FindFiscalYearByIDForUpdate(ctx, tx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock fiscal year: %w", err)
	}
	if lockedYear.Status == domain.StatusClosed {
		return nil, fmt.Errorf("%w: %s", ErrYearAlreadyClosed, fiscalYearID)
	}

	periods, err := s.periodRepo.ListPeriodsByFiscalYearForUpdate(ctx, tx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock periods: %w", err)
	}
	var lastRegular *domain.AccountingPeriod
	openCount := 0
	for i := range periods {
		if periods[i].Status == domain.StatusOpen {
			openCount++
		}
		if periods[i].PeriodType == domain.PeriodRegular {
			if lastRegular == nil || periods[i].Number > lastRegular.Number {
				lastRegular = &periods[i]
			}
		}
	}
	if openCount > 0 {
		return nil, fmt.Errorf("%w: %d of %d", ErrOpenPeriods, openCount, len(periods))
	}
	if lastRegular == nil {
		return nil, ErrNoRegularPeriods
	}

	// Lock the whole chart so balances cannot move while we sweep and carry
	// them forward.
	allTypes := []domain.AccountType{
		domain.Asset, domain.Liability, domain.Equity,
		domain.Revenue, domain.Expense, domain.CostOfSales,
	}
	accounts, err := s.accountRepo.FindAccountsByTypesForUpdate(ctx, tx, organizationID, allTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	now := time.Now().UTC()
	one := decimal.NewFromInt(1)
	totalRevenue := decimal.Zero
	totalExpenses := decimal.Zero
	balanceChanges := make(map[string]decimal.Decimal)
	entryID := uuid.NewString()
	var lines []domain.EntryLine

	lineAudit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	for i := range accounts {
		account := accounts[i]
		if !account.AccountType.IsIncomeStatement() {
			continue
		}
		if account.AccountType == domain.Revenue {
			totalRevenue = totalRevenue.Add(account.Balance)
		} else {
			totalExpenses = totalExpenses.Add(account.Balance)
		}
		if account.Balance.IsZero() {
			continue
		}
		debit, credit := accounting.ClosingLine(account, account.Balance)
		lines = append(lines, domain.EntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    account.AccountID,
			Debit:        debit,
			Credit:       credit,
			CurrencyCode: org.BaseCurrencyCode,
			ExchangeRate: one,
			Notes:        fmt.Sprintf("Close %s", account.Code),
			AuditFields:  lineAudit,
		})
		balanceChanges[account.AccountID] = account.Balance.Neg()
	}

	netIncome := totalRevenue.Sub(totalExpenses)
	if !netIncome.IsZero() {
		debit, credit := decimal.Zero, netIncome
		if netIncome.IsNegative() {
			debit, credit = netIncome.Abs(), decimal.Zero
		}
		lines = append(lines, domain.EntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    retained.AccountID,
			Debit:        debit,
			Credit:       credit,
			CurrencyCode: org.BaseCurrencyCode,
			ExchangeRate: one,
			Notes:        "Net income for the year",
			AuditFields:  lineAudit,
		})
		balanceChanges[retained.AccountID] = balanceChanges[retained.AccountID].Add(netIncome)
	}

	var closingEntryID *string
	accountsClosed := 0
	if len(lines) > 0 {
		entry := domain.JournalEntry{
			EntryID:        entryID,
			OrganizationID: organizationID,
			EntryDate:      req.ClosingDate,
			EntryType:      domain.Closing,
			Status:         domain.Posted,
			Description:    fmt.Sprintf("Year-end close %s", year.Name),
			PeriodID:       &lastRegular.PeriodID,
			IsClosingEntry: true,
			AuditFields:    lineAudit,
		}
		if err := s.entryRepo.SaveEntryInTx(ctx, tx, entry, lines, balanceChanges); err != nil {
			logger.Error("Failed to save closing entry", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
			return nil, fmt.Errorf("failed to save closing entry: %w", err)
		}
		closingEntryID = &entryID
		accountsClosed = len(balanceChanges)
		if _, swept := balanceChanges[retained.AccountID]; swept {
			accountsClosed--
		}
	}

	// Close the periods that are still SOFT_CLOSED.
	periodsClosed := 0
	for i := range periods {
		if periods[i].Status != domain.StatusSoftClosed {
			continue
		}
		if err := s.periodRepo.UpdatePeriodStatusInTx(ctx, tx, periods[i].PeriodID, domain.StatusSoftClosed, domain.StatusClosed, userID, now); err != nil {
			return nil, fmt.Errorf("failed to close period %s: %w", periods[i].PeriodID, err)
		}
		periodsClosed++
	}

	openingBalancesCreated := 0
	if req.GenerateOpeningBalances {
		var openingBalances []domain.OpeningBalance
		for i := range accounts {
			account := accounts[i]
			if !account.AccountType.IsBalanceSheet() {
				continue
			}
			// Post-sweep balance, so retained earnings already holds net income.
			amount := account.Balance.Add(balanceChanges[account.AccountID])
			if amount.IsZero() {
				continue
			}
			openingBalances = append(openingBalances, domain.OpeningBalance{
				OpeningBalanceID: uuid.NewString(),
				OrganizationID:   organizationID,
				FiscalYearID:     nextYear.FiscalYearID,
				AccountID:        account.AccountID,
				Amount:           amount,
				CurrencyCode:     org.BaseCurrencyCode,
			})
		}
		if len(openingBalances) > 0 {
			if err := s.fiscalYearRepo.SaveOpeningBalancesInTx(ctx, tx, openingBalances); err != nil {
				logger.Error("Failed to save opening balances", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
				return nil, fmt.Errorf("failed to save opening balances: %w", err)
			}
		}
		openingBalancesCreated = len(openingBalances)
	}

	if err := s.fiscalYearRepo.UpdateFiscalYearStatusInTx(ctx, tx, fiscalYearID, lockedYear.Status, domain.StatusClosed, closingEntryID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to close fiscal year: %w", err)
	}

	if err := s.auditRepo.RecordEventInTx(ctx, tx, domain.AuditEvent{
		EventID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     "fiscal_year",
		EntityID:       fiscalYearID,
		Action:         domain.ActionFiscalYearClosed,
		Before:         string(lockedYear.Status),
		After:          string(domain.StatusClosed),
		ActorUserID:    userID,
		OccurredAt:     now,
	}); err != nil {
		return nil, fmt.Errorf("failed to record close audit event: %w", err)
	}

	if err := s.fiscalYearRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit close transaction", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to commit year-end close: %w", err)
	}
	committed = true

	resp := &dto.CloseFiscalYearResponse{
		FiscalYearID:           fiscalYearID,
		TotalRevenue:           totalRevenue,
		TotalExpenses:          totalExpenses,
		NetIncome:              netIncome,
		AccountsClosed:         accountsClosed,
		PeriodsClosed:          periodsClosed,
		OpeningBalancesCreated: openingBalancesCreated,
	}
	if closingEntryID != nil {
		resp.ClosingEntryID = *closingEntryID
	}

	logger.Info("Fiscal year closed",
		slog.String("fiscal_year_id", fiscalYearID),
		slog.String("net_income", netIncome.String()),
		slog.Int("accounts_closed", accountsClosed),
		slog.Int("periods_closed", periodsClosed),
	)
	return resp, nil
}
