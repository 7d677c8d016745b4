package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	"github.com/jash90/ledger_posting_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, organization_id, entry_date, entry_type, status, description,
	period_id, is_closing_entry, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, currency_code, exchange_rate,
	cost_center_id, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.OrganizationID,
		&e.EntryDate,
		&e.EntryType,
		&e.Status,
		&e.Description,
		&e.PeriodID,
		&e.IsClosingEntry,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func scanLine(row pgx.Row) (domain.EntryLine, error) {
	var l domain.EntryLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.Debit,
		&l.Credit,
		&l.CurrencyCode,
		&l.ExchangeRate,
		&l.CostCenterID,
		&l.Notes,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// insertEntryInTx inserts the entry header within the transaction.
func (r *PgxEntryRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.OrganizationID,
		entry.EntryDate,
		entry.EntryType,
		entry.Status,
		entry.Description,
		entry.PeriodID,
		entry.IsClosingEntry,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// insertLinesInTx batch-inserts the entry's lines within the transaction.
func (r *PgxEntryRepository) insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.EntryLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query,
			l.LineID,
			l.EntryID,
			l.AccountID,
			l.Debit,
			l.Credit,
			l.CurrencyCode,
			l.ExchangeRate,
			l.CostCenterID,
			l.Notes,
			l.CreatedAt,
			l.CreatedBy,
			l.LastUpdatedAt,
			l.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line insert batch: %w", err)
	}
	return nil
}

// SaveEntryInTx persists an entry, its lines and balance deltas inside a
// caller-owned transaction.
func (r *PgxEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal) error {
	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}
	if len(balanceChanges) > 0 {
		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
			return fmt.Errorf("failed to update account balances for entry %s: %w", entry.EntryID, err)
		}
	}
	return nil
}

// SaveEntry persists an entry and its lines. For POSTED entries the balance
// deltas are applied to the affected accounts in the same database transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	if err := r.SaveEntryInTx(ctx, tx, entry, lines, balanceChanges); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry by its ID, without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	return &entry, nil
}

// ListEntriesByOrganization retrieves a paginated list of entries using
// token-based keyset pagination on (entry_date, created_at).
func (r *PgxEntryRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to learn whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE organization_id = $1`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{organizationID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for organization "+organizationID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// CountUnpostedEntriesInPeriod counts DRAFT and PENDING entries whose date
// falls within the period's window. Unposted entries carry no period stamp
// yet, so membership is by date.
func (r *PgxEntryRepository) CountUnpostedEntriesInPeriod(ctx context.Context, periodID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries e
		JOIN accounting_periods p ON p.period_id = $1
		WHERE e.organization_id = p.organization_id
		  AND e.status IN ('DRAFT', 'PENDING')
		  AND e.entry_date >= p.start_date
		  AND e.entry_date <= p.end_date;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, periodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unposted entries for period %s: %w", periodID, err)
	}
	return count, nil
}

// UpdateEntry updates a DRAFT entry's header and, when lines are provided,
// replaces its lines.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET entry_date = $2,
		    description = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in draft", apperrors.ErrConflict, entry.EntryID)
	}

	if lines != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
			return fmt.Errorf("failed to delete lines of entry %s: %w", entry.EntryID, err)
		}
		if err := r.insertLinesInTx(ctx, tx, lines); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// MarkEntryPosted flips an entry to POSTED, stamps the resolved period and
// applies balance deltas atomically. The expected status guards against a
// concurrent posting of the same entry. The period row is share-locked and
// re-read inside the transaction: a poster that validated against an open
// period but raced a year-end close waits on the close's lock and then sees
// CLOSED here, so the entry can never slip into a period the close already
// swept.
func (r *PgxEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, expected domain.EntryStatus, periodID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var periodStatus domain.PeriodStatus
	err = tx.QueryRow(ctx, `SELECT status FROM accounting_periods WHERE period_id = $1 FOR SHARE;`, periodID).Scan(&periodStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	if periodStatus == domain.StatusClosed {
		return fmt.Errorf("%w: period %s closed before entry %s could post", apperrors.ErrConflict, periodID, entryID)
	}

	query := `
		UPDATE journal_entries
		SET status = 'POSTED',
		    period_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entry_id = $1 AND status = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, expected, periodID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrConflict, entryID, expected)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances for entry %s: %w", entryID, err)
	}
	return r.Commit(ctx, tx)
}

// FindLinesByEntryID retrieves all lines of a single entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM entry_lines WHERE entry_id = $1 ORDER BY created_at, line_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.EntryLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry
// ID. Entries with no lines get an empty slice.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.EntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.EntryLine{}, nil
	}
	query := `SELECT ` + lineColumns + ` FROM entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, created_at, line_id;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.EntryLine)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		linesMap[l.EntryID] = append(linesMap[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.EntryLine{}
		}
	}
	return linesMap, nil
}
