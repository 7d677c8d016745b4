package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
)

const fiscalYearColumns = `fiscal_year_id, organization_id, name, start_date, end_date, status,
	retained_earnings_account_id, closing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalYearRepository struct {
	BaseRepository
}

// newPgxFiscalYearRepository creates a new repository for fiscal year data.
func newPgxFiscalYearRepository(pool *pgxpool.Pool) portsrepo.FiscalYearRepositoryWithTx {
	return &PgxFiscalYearRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFiscalYearRepository implements portsrepo.FiscalYearRepositoryWithTx
var _ portsrepo.FiscalYearRepositoryWithTx = (*PgxFiscalYearRepository)(nil)

func scanFiscalYear(row pgx.Row) (domain.FiscalYear, error) {
	var y domain.FiscalYear
	err := row.Scan(
		&y.FiscalYearID,
		&y.OrganizationID,
		&y.Name,
		&y.StartDate,
		&y.EndDate,
		&y.Status,
		&y.RetainedEarningsAccountID,
		&y.ClosingEntryID,
		&y.CreatedAt,
		&y.CreatedBy,
		&y.LastUpdatedAt,
		&y.LastUpdatedBy,
	)
	return y, err
}

// FindFiscalYearByID retrieves a fiscal year by its ID.
func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1;`
	year, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal year by ID "+fiscalYearID, err)
	}
	return &year, nil
}

// FindNextFiscalYear returns the earliest fiscal year of the organization
// starting after the given date.
func (r *PgxFiscalYearRepository) FindNextFiscalYear(ctx context.Context, organizationID string, after time.Time) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE organization_id = $1 AND start_date > $2
		ORDER BY start_date
		LIMIT 1;
	`
	year, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, organizationID, after))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find next fiscal year", err)
	}
	return &year, nil
}

// ListFiscalYears retrieves all fiscal years of an organization ordered by
// start date.
func (r *PgxFiscalYearRepository) ListFiscalYears(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE organization_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal years for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		y, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", err)
	}
	return years, nil
}

// HasOverlappingFiscalYear reports whether any fiscal year of the
// organization intersects the given date range.
func (r *PgxFiscalYearRepository) HasOverlappingFiscalYear(ctx context.Context, organizationID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fiscal_years
			WHERE organization_id = $1
			  AND start_date <= $3
			  AND end_date >= $2
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, organizationID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check fiscal year overlap: %w", err)
	}
	return exists, nil
}

// SaveFiscalYear persists a new fiscal year.
func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		year.FiscalYearID,
		year.OrganizationID,
		year.Name,
		year.StartDate,
		year.EndDate,
		year.Status,
		year.RetainedEarningsAccountID,
		year.ClosingEntryID,
		year.CreatedAt,
		year.CreatedBy,
		year.LastUpdatedAt,
		year.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fiscal year %s already exists", apperrors.ErrDuplicate, year.FiscalYearID)
		}
		return fmt.Errorf("failed to save fiscal year %s: %w", year.FiscalYearID, err)
	}
	return nil
}

// UpdateFiscalYearStatusInTx flips a fiscal year's status and records the
// closing entry inside a caller-owned transaction. The expected status guards
// against a concurrent close.
func (r *PgxFiscalYearRepository) UpdateFiscalYearStatusInTx(ctx context.Context, tx pgx.Tx, fiscalYearID string, expected, next domain.PeriodStatus, closingEntryID *string, userID string, now time.Time) error {
	query := `
		UPDATE fiscal_years
		SET status = $3,
		    closing_entry_id = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE fiscal_year_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, fiscalYearID, expected, next, closingEntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of fiscal year %s: %w", fiscalYearID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal year %s is no longer %s", apperrors.ErrConflict, fiscalYearID, expected)
	}
	return nil
}

// FindFiscalYearByIDForUpdate selects and row-locks a fiscal year for the
// duration of the transaction.
func (r *PgxFiscalYearRepository) FindFiscalYearByIDForUpdate(ctx context.Context, tx pgx.Tx, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1 FOR UPDATE;`
	year, err := scanFiscalYear(tx.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock fiscal year "+fiscalYearID, err)
	}
	return &year, nil
}

// SaveOpeningBalancesInTx persists carried-forward opening balances.
func (r *PgxFiscalYearRepository) SaveOpeningBalancesInTx(ctx context.Context, tx pgx.Tx, balances []domain.OpeningBalance) error {
	if len(balances) == 0 {
		return nil
	}
	query := `
		INSERT INTO opening_balances (opening_balance_id, organization_id, fiscal_year_id, account_id, amount, currency_code)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, b := range balances {
		batch.Queue(query,
			b.OpeningBalanceID,
			b.OrganizationID,
			b.FiscalYearID,
			b.AccountID,
			b.Amount,
			b.CurrencyCode,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: opening balance already exists for account in fiscal year", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute opening balance insert batch: %w", err)
	}
	return nil
}
