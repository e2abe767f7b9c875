package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditSeverity grades how security-relevant an audited event is.
type AuditSeverity string

const (
	AuditSeverityLow    AuditSeverity = "low"
	AuditSeverityMedium AuditSeverity = "medium"
	AuditSeverityHigh   AuditSeverity = "high"
)

// AuditStatus records the outcome of the audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// Lifecycle stages appended to the operation kind to form the action
// name, e.g. "transfer_initiated", "withdrawal_failed".
const (
	AuditStageInitiated = "initiated"
	AuditStageCompleted = "completed"
	AuditStageFailed    = "failed"
)

// AuditLog is an append-only record of a lifecycle event with
// before/after state snapshots. Entries are never mutated or deleted.
type AuditLog struct {
	ID           uuid.UUID     `json:"id"`
	Action       string        `json:"action"`
	ResourceType string        `json:"resource_type"`
	ResourceID   string        `json:"resource_id,omitempty"`
	ActorID      *uuid.UUID    `json:"actor_id,omitempty"`
	IPAddress    string        `json:"ip_address,omitempty"`
	UserAgent    string        `json:"user_agent,omitempty"`
	OldValues    string        `json:"old_values,omitempty"` // JSON snapshot
	NewValues    string        `json:"new_values,omitempty"` // JSON snapshot
	Severity     AuditSeverity `json:"severity"`
	Status       AuditStatus   `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// AuditAction builds the action name for a kind and lifecycle stage.
func AuditAction(kind TransactionKind, stage string) string {
	return string(kind) + "_" + stage
}
