package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AgentRepo implements ports.AgentRepository.
type AgentRepo struct {
	pool Pool
}

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(pool Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

const agentColumns = `id, name, status, cash_balance, wallet_id, created_at`

// GetByID fetches an agent by UUID (without locking).
func (r *AgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`
	return scanAgent(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an agent by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *AgentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1 FOR UPDATE`
	return scanAgent(tx.QueryRow(ctx, query, id))
}

// UpdateCashBalance sets an agent's cash float within a transaction.
func (r *AgentRepo) UpdateCashBalance(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, cashBalance decimal.Decimal) error {
	query := `UPDATE agents SET cash_balance = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, cashBalance, agentID)
	if err != nil {
		return fmt.Errorf("update agent cash balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent not found: %s", agentID)
	}
	return nil
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := row.Scan(&a.ID, &a.Name, &a.Status, &a.CashBalance, &a.WalletID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}
	return a, nil
}
