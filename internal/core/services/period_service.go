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
)

var (
	ErrIllegalTransition     = errors.New("illegal period status transition")
	ErrPeriodHasUnposted     = errors.New("period has unposted entries")
	ErrPeriodsAlreadyExist   = errors.New("fiscal year already has regular periods")
	ErrAdjustingPeriodExists = errors.New("fiscal year already has an adjusting period")
)

// periodService provides period generation and lifecycle transitions.
type periodService struct {
	periodRepo     portsrepo.PeriodRepositoryWithTx
	fiscalYearRepo portsrepo.FiscalYearReader
	entryRepo      portsrepo.EntryReader
	auditRepo      portsrepo.AuditRecorder
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepositoryWithTx,
	fiscalYearRepo portsrepo.FiscalYearReader,
	entryRepo portsrepo.EntryReader,
	auditRepo portsrepo.AuditRecorder,
) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:     periodRepo,
		fiscalYearRepo: fiscalYearRepo,
		entryRepo:      entryRepo,
		auditRepo:      auditRepo,
	}
}

// Ensure periodService implements the portssvc.PeriodSvcFacade interface
var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// GetPeriodByID retrieves a specific period.
func (s *periodService) GetPeriodByID(ctx context.Context, organizationID string, periodID string) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}

// GetPeriodForDate resolves the REGULAR period covering the date. Regular
// periods never overlap, so at most one matches.
func (s *periodService) GetPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindRegularPeriodForDate(ctx, organizationID, date)
}

// ListPeriods retrieves the periods of a fiscal year ordered by number.
func (s *periodService) ListPeriods(ctx context.Context, organizationID string, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return s.periodRepo.ListPeriodsByFiscalYear(ctx, fiscalYearID)
}

// addMonthsClamped moves t forward by whole months, clamping the day to the
// target month's last day so a day-31 anchor lands on Feb 28 instead of
// normalizing into March.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// GeneratePeriods carves a fiscal year into consecutive monthly REGULAR
// periods. By default each period is bounded by the first and last day of its
// calendar month, so a mid-month year opens and closes with a short period;
// custom boundaries anchor every period to the year's start day instead. The
// last period is truncated to the year's end date so the sequence exactly
// tiles the year.
func (s *periodService) GeneratePeriods(ctx context.Context, organizationID string, fiscalYearID string, req dto.GeneratePeriodsRequest, userID string) ([]domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	existing, err := s.periodRepo.ListPeriodsByFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing periods: %w", err)
	}
	for i := range existing {
		if existing[i].PeriodType == domain.PeriodRegular {
			return nil, ErrPeriodsAlreadyExist
		}
	}

	now := time.Now().UTC()
	var periods []domain.AccountingPeriod
	cursor := year.StartDate
	for number := 1; !cursor.After(year.EndDate); number++ {
		var next time.Time
		if req.CustomBoundaries {
			next = addMonthsClamped(year.StartDate, number)
		} else {
			// First day of the month after the cursor's.
			next = time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, cursor.Location()).AddDate(0, 1, 0)
		}
		end := next.AddDate(0, 0, -1)
		if end.After(year.EndDate) {
			end = year.EndDate
		}
		periods = append(periods, domain.AccountingPeriod{
			PeriodID:       uuid.NewString(),
			OrganizationID: organizationID,
			FiscalYearID:   fiscalYearID,
			Number:         number,
			Name:           cursor.Format("2006-01"),
			StartDate:      cursor,
			EndDate:        end,
			Status:         domain.StatusOpen,
			PeriodType:     domain.PeriodRegular,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
		cursor = end.AddDate(0, 0, 1)
	}

	if err := s.periodRepo.SavePeriods(ctx, periods); err != nil {
		logger.Error("Failed to save generated periods", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to save generated periods: %w", err)
	}

	logger.Info("Periods generated", slog.String("fiscal_year_id", fiscalYearID), slog.Int("count", len(periods)))
	return periods, nil
}

// CreateAdjustingPeriod creates the single adjusting period, numbered after
// the regular sequence (13 for a standard year). It spans only the fiscal
// year's end date so it never collides with the regular date-resolution path.
func (s *periodService) CreateAdjustingPeriod(ctx context.Context, organizationID string, fiscalYearID string, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", fiscalYearID, err)
	}
	if year.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	existing, err := s.periodRepo.ListPeriodsByFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing periods: %w", err)
	}
	// A mid-month year carries 13 regular slices; the adjusting period always
	// follows the regular sequence.
	number := domain.AdjustingPeriodNumber
	for i := range existing {
		if existing[i].PeriodType == domain.PeriodAdjusting {
			return nil, ErrAdjustingPeriodExists
		}
		if existing[i].PeriodType == domain.PeriodRegular && existing[i].Number >= number {
			number = existing[i].Number + 1
		}
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		FiscalYearID:   fiscalYearID,
		Number:         number,
		Name:           fmt.Sprintf("%s ADJ", year.Name),
		StartDate:      year.EndDate,
		EndDate:        year.EndDate,
		Status:         domain.StatusOpen,
		PeriodType:     domain.PeriodAdjusting,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.periodRepo.SavePeriods(ctx, []domain.AccountingPeriod{period}); err != nil {
		logger.Error("Failed to save adjusting period", slog.String("error", err.Error()), slog.String("fiscal_year_id", fiscalYearID))
		return nil, fmt.Errorf("failed to save adjusting period: %w", err)
	}

	logger.Info("Adjusting period created", slog.String("fiscal_year_id", fiscalYearID), slog.String("period_id", period.PeriodID))
	return &period, nil
}

// ChangePeriodStatus performs one lifecycle transition. The repository update
// is conditional on the status the caller observed, so two concurrent
// transitions cannot both succeed. Closing a period that still holds unposted
// entries requires an explicit override, which leaves its own audit record.
func (s *periodService) ChangePeriodStatus(ctx context.Context, organizationID string, periodID string, req dto.ChangePeriodStatusRequest, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.GetPeriodByID(ctx, organizationID, periodID)
	if err != nil {
		return nil, err
	}

	if !period.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, period.Status, req.Status)
	}

	overridden := false
	if req.Status == domain.StatusClosed {
		unposted, err := s.entryRepo.CountUnpostedEntriesInPeriod(ctx, periodID)
		if err != nil {
			return nil, fmt.Errorf("failed to count unposted entries: %w", err)
		}
		if unposted > 0 {
			if !req.Override {
				return nil, fmt.Errorf("%w: %d entries remain", ErrPeriodHasUnposted, unposted)
			}
			overridden = true
			logger.Warn("Closing period over unposted entries", slog.String("period_id", periodID), slog.Int("unposted", unposted), slog.String("user_id", userID))
		}
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, period.Status, req.Status, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("period %s was modified concurrently: %w", periodID, err)
		}
		logger.Error("Failed to update period status", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to update period status: %w", err)
	}

	if err := s.auditRepo.RecordEvent(ctx, domain.AuditEvent{
		EventID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntityType:     "period",
		EntityID:       periodID,
		Action:         domain.ActionPeriodStatusChanged,
		Before:         string(period.Status),
		After:          string(req.Status),
		ActorUserID:    userID,
		OccurredAt:     now,
	}); err != nil {
		logger.Warn("Failed to record audit event for period transition", slog.String("error", err.Error()), slog.String("period_id", periodID))
	}
	if overridden {
		if err := s.auditRepo.RecordEvent(ctx, domain.AuditEvent{
			EventID:        uuid.NewString(),
			OrganizationID: organizationID,
			EntityType:     "period",
			EntityID:       periodID,
			Action:         domain.ActionCloseOverride,
			Before:         string(period.Status),
			After:          string(req.Status),
			ActorUserID:    userID,
			OccurredAt:     now,
		}); err != nil {
			logger.Warn("Failed to record override audit event", slog.String("error", err.Error()), slog.String("period_id", periodID))
		}
	}

	logger.Info("Period status changed", slog.String("period_id", periodID), slog.String("from", string(period.Status)), slog.String("to", string(req.Status)))

	period.Status = req.Status
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID
	return period, nil
}
