package model

import "time"

// AuditAction categorizes what an audit entry records.
type AuditAction string

// Audit action constants.
const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditIngest AuditAction = "ingest"
)

// AuditEntry is one immutable line in a component's change history.
type AuditEntry struct {
	At          time.Time   `json:"at"`
	ComponentID string      `json:"component_id"`
	Actor       string      `json:"actor"`
	Action      AuditAction `json:"action"`
	Field       string      `json:"field"`
	Before      string      `json:"before"`
	After       string      `json:"after"`
	ID          int64       `json:"id"`
}
