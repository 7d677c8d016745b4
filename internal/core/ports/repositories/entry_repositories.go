package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByOrganization retrieves a paginated list of entries using
	// token-based pagination. Returns the entries, a token for the next page,
	// and an error.
	ListEntriesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountUnpostedEntriesInPeriod counts DRAFT and PENDING entries whose
	// resolved period matches.
	CountUnpostedEntriesInPeriod(ctx context.Context, periodID string) (int, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists an entry and its lines. For POSTED entries the
	// balance deltas are applied to the affected accounts in the same
	// database transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal) error

	// SaveEntryInTx persists an entry, its lines and balance deltas inside a
	// caller-owned transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.EntryLine, balanceChanges map[string]decimal.Decimal) error

	// UpdateEntry updates a DRAFT entry's header and replaces its lines.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.EntryLine) error

	// MarkEntryPosted flips an entry to POSTED, stamps the resolved period
	// and applies balance deltas atomically. The expected status guards
	// against concurrent posting.
	MarkEntryPosted(ctx context.Context, entryID string, expected domain.EntryStatus, periodID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// LineReader defines read operations for entry line data
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.EntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.EntryLine, error)
}

// EntryRepositoryFacade combines all entry-related repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	LineReader
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
