package services

import (
	"context"
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting period data
type PeriodReaderSvc interface {
	// GetPeriodByID retrieves a specific period.
	GetPeriodByID(ctx context.Context, organizationID string, periodID string) (*domain.AccountingPeriod, error)

	// GetPeriodForDate resolves the REGULAR period covering the date, or
	// returns apperrors.ErrNotFound.
	GetPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves the periods of a fiscal year ordered by number.
	ListPeriods(ctx context.Context, organizationID string, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines write operations for accounting period data
type PeriodWriterSvc interface {
	// GeneratePeriods creates the consecutive monthly REGULAR periods of a
	// fiscal year, each bounded by its calendar month unless the request asks
	// for custom boundaries, the last one truncated to the year's end date.
	GeneratePeriods(ctx context.Context, organizationID string, fiscalYearID string, req dto.GeneratePeriodsRequest, userID string) ([]domain.AccountingPeriod, error)

	// CreateAdjustingPeriod creates the single adjusting period, numbered
	// after the regular sequence, spanning only the fiscal year's end date.
	CreateAdjustingPeriod(ctx context.Context, organizationID string, fiscalYearID string, userID string) (*domain.AccountingPeriod, error)

	// ChangePeriodStatus performs one lifecycle transition. Closing refuses
	// while unposted entries remain in the period unless the request carries
	// an override, which is recorded in the audit log.
	ChangePeriodStatus(ctx context.Context, organizationID string, periodID string, req dto.ChangePeriodStatusRequest, userID string) (*domain.AccountingPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
