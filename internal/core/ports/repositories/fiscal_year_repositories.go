package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// FiscalYearReader defines read operations for fiscal year data
type FiscalYearReader interface {
	// FindFiscalYearByID retrieves a specific fiscal year.
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// FindNextFiscalYear returns the earliest fiscal year of the organization
	// starting after the given date, or apperrors.ErrNotFound.
	FindNextFiscalYear(ctx context.Context, organizationID string, after time.Time) (*domain.FiscalYear, error)

	// ListFiscalYears retrieves all fiscal years of an organization ordered by start date.
	ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error)

	// HasOverlappingFiscalYear reports whether any fiscal year of the
	// organization intersects the given date range.
	HasOverlappingFiscalYear(ctx context.Context, organizationID string, start, end time.Time) (bool, error)
}

// FiscalYearWriter defines write operations for fiscal year data
type FiscalYearWriter interface {
	// SaveFiscalYear persists a new fiscal year.
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error

	// UpdateFiscalYearStatusInTx flips a fiscal year's status and records the
	// closing entry inside a caller-owned transaction. The expected status
	// guards against a concurrent close.
	UpdateFiscalYearStatusInTx(ctx context.Context, tx pgx.Tx, fiscalYearID string, expected, next domain.PeriodStatus, closingEntryID *string, userID string, now time.Time) error
}

// FiscalYearTransactionSupport defines fiscal year operations that run inside
// a caller-owned database transaction.
type FiscalYearTransactionSupport interface {
	// FindFiscalYearByIDForUpdate selects and row-locks a fiscal year for the
	// duration of the transaction.
	FindFiscalYearByIDForUpdate(ctx context.Context, tx pgx.Tx, fiscalYearID string) (*domain.FiscalYear, error)

	// SaveOpeningBalancesInTx persists carried-forward opening balances.
	SaveOpeningBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.OpeningBalance) error
}

// FiscalYearRepositoryFacade combines all fiscal-year repository interfaces
type FiscalYearRepositoryFacade interface {
	FiscalYearReader
	FiscalYearWriter
	FiscalYearTransactionSupport
}

// FiscalYearRepositoryWithTx extends FiscalYearRepositoryFacade with transaction capabilities
type FiscalYearRepositoryWithTx interface {
	FiscalYearRepositoryFacade
	TransactionManager
}
