package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// AuditRecorder is the sink for structured state-transition events. The core
// reports every period/year/rule transition through it; storage and retention
// belong to the implementation.
type AuditRecorder interface {
	// RecordEvent persists a single audit event.
	RecordEvent(ctx context.Context, event domain.AuditEvent) error

	// RecordEventInTx persists an audit event inside a caller-owned
	// transaction, so the event commits or rolls back with the transition it
	// describes.
	RecordEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error
}
