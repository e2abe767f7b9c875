package postgres

import (
	"context"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, resource_type, resource_id, actor_id, ip_address,
		 user_agent, old_values, new_values, severity, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID, entry.Action, entry.ResourceType, entry.ResourceID, entry.ActorID,
		entry.IPAddress, entry.UserAgent, entry.OldValues, entry.NewValues,
		entry.Severity, entry.Status, entry.CreatedAt,
	)
	return err
}
