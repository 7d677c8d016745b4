package services

import (
	"context"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// EntryReaderSvc defines read operations for journal entry data
type EntryReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, organizationID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, organizationID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines write operations for journal entry data
type EntryWriterSvc interface {
	// CreateEntry captures a new entry as DRAFT or PENDING.
	CreateEntry(ctx context.Context, organizationID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry edits an entry that is still DRAFT.
	UpdateEntry(ctx context.Context, organizationID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry validates and admits an entry to the books. The verdict is
	// returned in both outcomes; posting happens only when the verdict's
	// CanPost is true.
	PostEntry(ctx context.Context, organizationID string, entryID string, userID string) (*domain.JournalEntry, *domain.ValidationResult, error)
}

// EntryValidatorSvc runs the validator against a proposed entry without
// persisting anything. Used for pre-save previews and by PostEntry.
type EntryValidatorSvc interface {
	ValidateEntry(ctx context.Context, organizationID string, req dto.ValidateEntryRequest) (*domain.ValidationResult, error)
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
	EntryValidatorSvc
}
