package audit

import (
	"time"
)

const (
	TableName  = "audit_events"
	EntityName = "audit_event"

	FieldID = "id"
)

// Actions recorded on the audit trail. Domain services compose entity and
// action, e.g. ("booking", ActionStatusChange).
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionSoftDelete   = "soft_delete"
	ActionRecover      = "recover"
	ActionStatusChange = "status_change"
	ActionPayment      = "payment"
	ActionAssign       = "assign"
	ActionDenied       = "access_denied"
	ActionLogin        = "login"
)

// Event is one append-only audit trail row. Events are never updated or
// deleted, so the model carries no metadata or soft delete columns.
type Event struct {
	ID         string    `db:"id"          json:"id"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	ActorID    string    `db:"actor_id"    json:"actor_id"`
	ActorRole  string    `db:"actor_role"  json:"actor_role"`
	Action     string    `db:"action"      json:"action"`
	Entity     string    `db:"entity"      json:"entity"`
	EntityID   string    `db:"entity_id"   json:"entity_id"`
	Detail     string    `db:"detail"      json:"detail"`
}
