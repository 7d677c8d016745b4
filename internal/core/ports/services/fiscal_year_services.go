package services

import (
	"context"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// FiscalYearReaderSvc defines read operations for fiscal year data
type FiscalYearReaderSvc interface {
	// GetFiscalYearByID retrieves a specific fiscal year.
	GetFiscalYearByID(ctx context.Context, organizationID string, fiscalYearID string) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves the organization's fiscal years ordered by start date.
	ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error)
}

// FiscalYearWriterSvc defines write operations for fiscal year data
type FiscalYearWriterSvc interface {
	// CreateFiscalYear creates a new fiscal year, optionally generating its
	// monthly periods in the same call.
	CreateFiscalYear(ctx context.Context, organizationID string, req dto.CreateFiscalYearRequest, creatorUserID string) (*domain.FiscalYear, error)

	// CloseFiscalYear runs the atomic year-end close: net income, closing
	// entry, period and year transitions, optional opening balances.
	CloseFiscalYear(ctx context.Context, organizationID string, fiscalYearID string, req dto.CloseFiscalYearRequest, userID string) (*dto.CloseFiscalYearResponse, error)
}

// FiscalYearSvcFacade combines all fiscal-year service interfaces
type FiscalYearSvcFacade interface {
	FiscalYearReaderSvc
	FiscalYearWriterSvc
}
