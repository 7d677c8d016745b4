package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for audit event data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRecorder {
	return &PgxAuditRepository{pool: pool}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRecorder
var _ portsrepo.AuditRecorder = (*PgxAuditRepository)(nil)

const auditInsertQuery = `
	INSERT INTO audit_events (event_id, organization_id, entity_type, entity_id, action, before_state, after_state, actor_user_id, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func recordEvent(ctx context.Context, exec interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}, event domain.AuditEvent) error {
	_, err := exec.Exec(ctx, auditInsertQuery,
		event.EventID,
		event.OrganizationID,
		event.EntityType,
		event.EntityID,
		event.Action,
		event.Before,
		event.After,
		event.ActorUserID,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event %s: %w", event.EventID, err)
	}
	return nil
}

// RecordEvent persists a single audit event.
func (r *PgxAuditRepository) RecordEvent(ctx context.Context, event domain.AuditEvent) error {
	return recordEvent(ctx, r.pool, event)
}

// RecordEventInTx persists an audit event inside a caller-owned transaction,
// so the event commits or rolls back with the transition it describes.
func (r *PgxAuditRepository) RecordEventInTx(ctx context.Context, tx pgx.Tx, event domain.AuditEvent) error {
	return recordEvent(ctx, tx, event)
}
