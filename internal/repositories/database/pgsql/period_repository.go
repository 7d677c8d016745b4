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

const periodColumns = `period_id, organization_id, fiscal_year_id, number, name, start_date, end_date,
	status, period_type, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryWithTx {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryWithTx
var _ portsrepo.PeriodRepositoryWithTx = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.OrganizationID,
		&p.FiscalYearID,
		&p.Number,
		&p.Name,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.PeriodType,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func scanPeriodRows(rows pgx.Rows) ([]domain.AccountingPeriod, error) {
	defer rows.Close()
	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}
	return &period, nil
}

// FindRegularPeriodForDate resolves the REGULAR period covering the date.
// Regular periods never overlap, so at most one row matches.
func (r *PgxPeriodRepository) FindRegularPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE organization_id = $1
		  AND period_type = 'REGULAR'
		  AND start_date <= $2
		  AND end_date >= $2;
	`
	period, err := scanPeriod(r.Pool.QueryRow(ctx, query, organizationID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date", err)
	}
	return &period, nil
}

// ListPeriodsByFiscalYear retrieves all periods of a fiscal year ordered by
// period number.
func (r *PgxPeriodRepository) ListPeriodsByFiscalYear(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE fiscal_year_id = $1 ORDER BY number;`
	rows, err := r.Pool.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods for fiscal year %s: %w", fiscalYearID, err)
	}
	return scanPeriodRows(rows)
}

// SavePeriods persists a batch of newly generated periods.
func (r *PgxPeriodRepository) SavePeriods(ctx context.Context, periods []domain.AccountingPeriod) error {
	if len(periods) == 0 {
		return nil
	}
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, p := range periods {
		batch.Queue(query,
			p.PeriodID,
			p.OrganizationID,
			p.FiscalYearID,
			p.Number,
			p.Name,
			p.StartDate,
			p.EndDate,
			p.Status,
			p.PeriodType,
			p.CreatedAt,
			p.CreatedBy,
			p.LastUpdatedAt,
			p.LastUpdatedBy,
		)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: period number already exists in fiscal year", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute period insert batch: %w", err)
	}
	return nil
}

// updatePeriodStatus is the shared conditional transition used by both the
// pool and transaction variants.
func updatePeriodStatus(ctx context.Context, exec interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}, periodID string, expected, next domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE period_id = $1 AND status = $2;
	`
	cmdTag, err := exec.Exec(ctx, query, periodID, expected, next, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %s is no longer %s", apperrors.ErrConflict, periodID, expected)
	}
	return nil
}

// UpdatePeriodStatus transitions a period from the expected status to the new
// one. A concurrent transition that already moved the period away from the
// expected status surfaces as apperrors.ErrConflict.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, expected, next domain.PeriodStatus, userID string, now time.Time) error {
	return updatePeriodStatus(ctx, r.Pool, periodID, expected, next, userID, now)
}

// UpdatePeriodStatusInTx is UpdatePeriodStatus inside a caller-owned transaction.
func (r *PgxPeriodRepository) UpdatePeriodStatusInTx(ctx context.Context, tx pgx.Tx, periodID string, expected, next domain.PeriodStatus, userID string, now time.Time) error {
	return updatePeriodStatus(ctx, tx, periodID, expected, next, userID, now)
}

// ListPeriodsByFiscalYearForUpdate selects and row-locks all periods of a
// fiscal year for the duration of the transaction.
func (r *PgxPeriodRepository) ListPeriodsByFiscalYearForUpdate(ctx context.Context, tx pgx.Tx, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE fiscal_year_id = $1 ORDER BY number FOR UPDATE;`
	rows, err := tx.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock periods for fiscal year %s: %w", fiscalYearID, err)
	}
	return scanPeriodRows(rows)
}
