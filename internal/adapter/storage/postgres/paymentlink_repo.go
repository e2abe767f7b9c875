package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentLinkRepo implements ports.PaymentLinkRepository.
type PaymentLinkRepo struct {
	pool Pool
}

// NewPaymentLinkRepo creates a new PaymentLinkRepo.
func NewPaymentLinkRepo(pool Pool) *PaymentLinkRepo {
	return &PaymentLinkRepo{pool: pool}
}

const paymentLinkColumns = `id, link_id, merchant_id, amount, currency, description, type, status, expiry, created_at`

// GetByLinkID fetches a payment link by its public identifier (without locking).
func (r *PaymentLinkRepo) GetByLinkID(ctx context.Context, linkID string) (*domain.PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links WHERE link_id = $1`
	return scanPaymentLink(r.pool.QueryRow(ctx, query, linkID))
}

// GetByLinkIDForUpdate fetches a payment link with pessimistic locking.
// This MUST be called within a transaction.
func (r *PaymentLinkRepo) GetByLinkIDForUpdate(ctx context.Context, tx pgx.Tx, linkID string) (*domain.PaymentLink, error) {
	query := `SELECT ` + paymentLinkColumns + ` FROM payment_links WHERE link_id = $1 FOR UPDATE`
	return scanPaymentLink(tx.QueryRow(ctx, query, linkID))
}

// UpdateStatus advances a payment link's status within a transaction.
func (r *PaymentLinkRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentLinkStatus) error {
	query := `UPDATE payment_links SET status = $1 WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update payment link status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment link not found: %s", id)
	}
	return nil
}

// MarkExpired flips an active link to expired. The status guard keeps a
// concurrent redemption from being overwritten.
func (r *PaymentLinkRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE payment_links SET status = 'expired' WHERE id = $1 AND status = 'active'`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("mark payment link expired: %w", err)
	}
	return nil
}

func scanPaymentLink(row pgx.Row) (*domain.PaymentLink, error) {
	l := &domain.PaymentLink{}
	err := row.Scan(
		&l.ID, &l.LinkID, &l.MerchantID, &l.Amount, &l.Currency,
		&l.Description, &l.Type, &l.Status, &l.Expiry, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment link: %w", err)
	}
	return l, nil
}
