package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// PeriodReader defines read operations for accounting period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)

	// FindRegularPeriodForDate resolves the REGULAR period covering the date
	// for an organization, or returns apperrors.ErrNotFound.
	FindRegularPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriodsByFiscalYear retrieves all periods of a fiscal year ordered
	// by period number.
	ListPeriodsByFiscalYear(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting period data
type PeriodWriter interface {
	// SavePeriods persists a batch of newly generated periods.
	SavePeriods(ctx context.Context, periods []domain.AccountingPeriod) error

	// UpdatePeriodStatus transitions a period from the expected status to the
	// new one. Returns apperrors.ErrConflict when the stored status no longer
	// matches expected, so concurrent transitions are linearized.
	UpdatePeriodStatus(ctx context.Context, periodID string, expected, next domain.PeriodStatus, userID string, now time.Time) error

	// UpdatePeriodStatusInTx is UpdatePeriodStatus inside a caller-owned transaction.
	UpdatePeriodStatusInTx(ctx context.Context, tx pgx.Tx, periodID string, expected, next domain.PeriodStatus, userID string, now time.Time) error
}

// PeriodTransactionSupport defines period operations that run inside a
// caller-owned database transaction.
type PeriodTransactionSupport interface {
	// ListPeriodsByFiscalYearForUpdate selects and row-locks all periods of a
	// fiscal year for the duration of the transaction.
	ListPeriodsByFiscalYearForUpdate(ctx context.Context, tx pgx.Tx, fiscalYearID string) ([]domain.AccountingPeriod, error)
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodTransactionSupport
}

// PeriodRepositoryWithTx extends PeriodRepositoryFacade with transaction capabilities
type PeriodRepositoryWithTx interface {
	PeriodRepositoryFacade
	TransactionManager
}
