package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CustomerProfileRepo implements ports.CustomerProfileRepository.
type CustomerProfileRepo struct {
	pool Pool
}

// NewCustomerProfileRepo creates a new CustomerProfileRepo.
func NewCustomerProfileRepo(pool Pool) *CustomerProfileRepo {
	return &CustomerProfileRepo{pool: pool}
}

const profileColumns = `id, full_name, pin_hash, wallet_status, wallet_id, created_at`

// GetByID fetches a customer profile by UUID.
func (r *CustomerProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM customer_profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetByWalletID fetches the customer profile owning a wallet.
func (r *CustomerProfileRepo) GetByWalletID(ctx context.Context, walletID uuid.UUID) (*domain.CustomerProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM customer_profiles WHERE wallet_id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, walletID))
}

func scanProfile(row pgx.Row) (*domain.CustomerProfile, error) {
	p := &domain.CustomerProfile{}
	err := row.Scan(&p.ID, &p.FullName, &p.PINHash, &p.WalletStatus, &p.WalletID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer profile: %w", err)
	}
	return p, nil
}
