package domain

import "time"

// AuditAction names a recorded state transition.
type AuditAction string

const (
	ActionPeriodStatusChanged AuditAction = "PERIOD_STATUS_CHANGED"
	ActionFiscalYearClosed    AuditAction = "FISCAL_YEAR_CLOSED"
	ActionRuleToggled         AuditAction = "RULE_TOGGLED"
	ActionEntryPosted         AuditAction = "ENTRY_POSTED"
	ActionCloseOverride       AuditAction = "PERIOD_CLOSE_OVERRIDE"
)

// AuditEvent is a structured before/after record of a state transition.
// The core emits these through a sink port; storage is external.
type AuditEvent struct {
	EventID        string      `json:"eventID"`
	OrganizationID string      `json:"organizationID"`
	EntityType     string      `json:"entityType"` // "period", "fiscal_year", "rule", "entry"
	EntityID       string      `json:"entityID"`
	Action         AuditAction `json:"action"`
	Before         string      `json:"before"`
	After          string      `json:"after"`
	ActorUserID    string      `json:"actorUserID"`
	OccurredAt     time.Time   `json:"occurredAt"`
}
