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
	ErrEntryMinLines      = errors.New("entry must have at least two lines")
	ErrEntryMinAccounts   = errors.New("entry must affect at least two different accounts")
	ErrDescriptionMissing = errors.New("entry description is required")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEntryNotDraft      = errors.New("entry must be in draft to be updated")
	ErrEntryPosted        = errors.New("entry is already posted")
	ErrEntryNotPostable   = errors.New("entry failed validation and cannot be posted")
)

// entryService provides journal entry capture, validation and posting.
type entryService struct {
	entryRepo  portsrepo.EntryRepositoryWithTx
	accountSvc portssvc.AccountSvcFacade
	periodSvc  portssvc.PeriodReaderSvc
	orgSvc     portssvc.OrganizationSvcFacade
	ruleRepo   portsrepo.RuleReader
	auditRepo  portsrepo.AuditRecorder
	validator  *EntryValidator
}

// NewEntryService creates a new EntryService.
func NewEntryService(
	entryRepo portsrepo.EntryRepositoryWithTx,
	accountSvc portssvc.AccountSvcFacade,
	periodSvc portssvc.PeriodReaderSvc,
	orgSvc portssvc.OrganizationSvcFacade,
	ruleRepo portsrepo.RuleReader,
	auditRepo portsrepo.AuditRecorder,
) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:  entryRepo,
		accountSvc: accountSvc,
		periodSvc:  periodSvc,
		orgSvc:     orgSvc,
		ruleRepo:   ruleRepo,
		auditRepo:  auditRepo,
		validator:  NewEntryValidator(),
	}
}

// Ensure entryService implements the portssvc.EntrySvcFacade interface
var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// buildLines converts request lines into domain lines, defaulting the
// exchange rate to 1 for base-currency lines that omit it.
func (s *entryService) buildLines(reqLines []dto.CreateEntryLineRequest, entryID, baseCurrency, creatorUserID string, now time.Time) []domain.EntryLine {
	one := decimal.NewFromInt(1)
	lines := make([]domain.EntryLine, len(reqLines))
	for i, lr := range reqLines {
		rate := lr.ExchangeRate
		if rate.IsZero() && lr.CurrencyCode == baseCurrency {
			rate = one
		}
		lines[i] = domain.EntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			Debit:        lr.Debit,
			Credit:       lr.Credit,
			CurrencyCode: lr.CurrencyCode,
			ExchangeRate: rate,
			CostCenterID: lr.CostCenterID,
			Notes:        lr.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}
	return lines
}

// CreateEntry captures a new journal entry as DRAFT (or PENDING when the
// caller submits it). Posting is a separate, validated step.
func (s *entryService) CreateEntry(ctx context.Context, organizationID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, ErrEntryMinLines
	}
	accountSet := make(map[string]bool)
	for _, line := range req.Lines {
		accountSet[line.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, ErrEntryMinAccounts
	}
	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	org, err := s.orgSvc.GetOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.Standard
	}
	status := domain.Draft
	if req.Submit {
		status = domain.Pending
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines := s.buildLines(req.Lines, entryID, org.BaseCurrencyCode, creatorUserID, now)

	entry := domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: organizationID,
		EntryDate:      req.Date,
		EntryType:      entryType,
		Status:         status,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// Unposted entries carry no balance changes.
	if err := s.entryRepo.SaveEntry(ctx, entry, lines, nil); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	logger.Info("Entry created", slog.String("entry_id", entryID), slog.String("status", string(status)))
	entry.Lines = nil
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *entryService) GetEntryByID(ctx context.Context, organizationID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.OrganizationID != organizationID {
		// Obscure existence across organizations.
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for an organization.
func (s *entryService) ListEntries(ctx context.Context, organizationID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntriesByOrganization(ctx, organizationID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	var linesMap map[string][]domain.EntryLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i := range entries {
			entryIDs[i] = entries[i].EntryID
		}
		linesMap, err = s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			logger.Warn("Failed to fetch lines for entries", slog.String("error", err.Error()))
			// Continue without lines rather than failing the whole request
		}
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		if linesMap != nil {
			entries[i].Lines = linesMap[entries[i].EntryID]
		}
		responses[i] = dto.ToEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// UpdateEntry edits an entry that is still DRAFT. Posted entries are immutable.
func (s *entryService) UpdateEntry(ctx context.Context, organizationID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return nil, ErrEntryNotDraft
	}

	now := time.Now().UTC()
	updated := false
	if req.Date != nil {
		entry.EntryDate = *req.Date
		updated = true
	}
	if req.Description != nil {
		entry.Description = *req.Description
		updated = true
	}

	var lines []domain.EntryLine
	if req.Lines != nil {
		org, err := s.orgSvc.GetOrganizationByID(ctx, organizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve organization: %w", err)
		}
		lines = s.buildLines(*req.Lines, entryID, org.BaseCurrencyCode, userID, now)
		updated = true
	}

	if !updated {
		return entry, nil
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	if err := s.entryRepo.UpdateEntry(ctx, *entry, lines); err != nil {
		logger.Error("Failed to save entry update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry update: %w", err)
	}

	logger.Info("Entry updated", slog.String("entry_id", entryID))
	entry.Lines = nil
	return entry, nil
}

// assembleInput gathers the reference data one validation run needs.
func (s *entryService) assembleInput(ctx context.Context, organizationID string, req dto.ValidateEntryRequest) (*ValidationInput, error) {
	org, err := s.orgSvc.GetOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	now := time.Now().UTC()
	lines := s.buildLines(req.Lines, "", org.BaseCurrencyCode, "", now)

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i := range lines {
		if _, ok := seen[lines[i].AccountID]; !ok {
			seen[lines[i].AccountID] = struct{}{}
			accountIDs = append(accountIDs, lines[i].AccountID)
		}
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	var period *domain.AccountingPeriod
	period, err = s.periodSvc.GetPeriodForDate(ctx, organizationID, req.Date)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve period: %w", err)
		}
		period = nil // The validator reports the missing period
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.Standard
	}
	rules, err := s.ruleRepo.ListActiveRules(ctx, organizationID, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch validation rules: %w", err)
	}

	return &ValidationInput{
		BaseCurrency: org.BaseCurrencyCode,
		EntryDate:    req.Date,
		EntryType:    entryType,
		Lines:        lines,
		Accounts:     accounts,
		Period:       period,
		Rules:        rules,
	}, nil
}

// ValidateEntry runs the validator without persisting anything. Used for
// pre-save previews; the verdict enumerates every problem at once.
func (s *entryService) ValidateEntry(ctx context.Context, organizationID string, req dto.ValidateEntryRequest) (*domain.ValidationResult, error) {
	input, err := s.assembleInput(ctx, organizationID, req)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(*input)
}

// PostEntry validates an entry and, when the verdict allows, admits it to the
// books: status flips to POSTED, the resolved period is stamped and account
// balances move atomically. The verdict is returned in both outcomes so the
// caller can persist it as an audit record.
func (s *entryService) PostEntry(ctx context.Context, organizationID string, entryID string, userID string) (*domain.JournalEntry, *domain.ValidationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.Status == domain.Posted {
		return nil, nil, fmt.Errorf("%w: entry %s", ErrEntryPosted, entryID)
	}

	req := dto.ValidateEntryRequest{
		Date:      entry.EntryDate,
		EntryType: entry.EntryType,
	}
	req.Lines = make([]dto.CreateEntryLineRequest, len(entry.Lines))
	for i := range entry.Lines {
		req.Lines[i] = dto.CreateEntryLineRequest{
			AccountID:    entry.Lines[i].AccountID,
			Debit:        entry.Lines[i].Debit,
			Credit:       entry.Lines[i].Credit,
			CurrencyCode: entry.Lines[i].CurrencyCode,
			ExchangeRate: entry.Lines[i].ExchangeRate,
			CostCenterID: entry.Lines[i].CostCenterID,
		}
	}

	input, err := s.assembleInput(ctx, organizationID, req)
	if err != nil {
		return nil, nil, err
	}
	verdict, err := s.validator.Validate(*input)
	if err != nil {
		return nil, nil, err
	}
	if !verdict.CanPost {
		logger.Warn("Entry failed pre-post validation", slog.String("entry_id", entryID), slog.Int("failures", len(verdict.Failures(domain.SeverityError))))
		return nil, verdict, ErrEntryNotPostable
	}

	// CanPost implies the period resolved; the balance rule would have failed otherwise.
	periodID := input.Period.PeriodID

	balanceChanges := make(map[string]decimal.Decimal)
	for i := range entry.Lines {
		account := input.Accounts[entry.Lines[i].AccountID]
		change, err := accounting.SignedBalanceChange(entry.Lines[i], account.AccountType)
		if err != nil {
			return nil, verdict, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		balanceChanges[entry.Lines[i].AccountID] = balanceChanges[entry.Lines[i].AccountID].Add(change)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.MarkEntryPosted(ctx, entryID, entry.Status, periodID, balanceChanges, userID, now); err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, verdict, fmt.Errorf("failed to post entry: %w", err)
	}

	if err := s.auditRepo.RecordEvent(ctx, domain.AuditEvent{
		EventID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     "entry",
		EntityID:       entryID,
		Action:         domain.ActionEntryPosted,
		Before:         string(entry.Status),
		After:          string(domain.Posted),
		ActorUserID:    userID,
		OccurredAt:     now,
	}); err != nil {
		logger.Warn("Failed to record audit event for posted entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
	}

	entry.Status = domain.Posted
	entry.PeriodID = &periodID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("period_id", periodID))
	return entry, verdict, nil
}
