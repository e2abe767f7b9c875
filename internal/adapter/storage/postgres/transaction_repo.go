package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, kind, amount, currency, sender_wallet_id, receiver_wallet_id,
		agent_id, merchant_id, payment_link_id, status, fee, reference, metadata, created_at, processed_at`

// Create inserts a new ledger record within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Kind, t.Amount, t.Currency, t.SenderWalletID, t.ReceiverWalletID,
		t.AgentID, t.MerchantID, t.PaymentLinkID, t.Status, t.Fee, t.Reference,
		t.Metadata, t.CreatedAt, t.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ReferenceExists checks whether a reference is already taken. Runs
// inside the caller's transaction so a freshly allocated reference stays
// unique up to commit.
func (r *TransactionRepo) ReferenceExists(ctx context.Context, tx pgx.Tx, reference string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE reference = $1)`

	var exists bool
	if err := tx.QueryRow(ctx, query, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check reference exists: %w", err)
	}
	return exists, nil
}

// SumCompletedSent sums completed transactions of a kind sent by a wallet since a point in time.
func (r *TransactionRepo) SumCompletedSent(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	return r.sumCompleted(ctx, tx, "sender_wallet_id", walletID, kind, since)
}

// SumCompletedReceived sums completed transactions of a kind received by a wallet since a point in time.
func (r *TransactionRepo) SumCompletedReceived(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	return r.sumCompleted(ctx, tx, "receiver_wallet_id", walletID, kind, since)
}

func (r *TransactionRepo) sumCompleted(ctx context.Context, tx pgx.Tx, column string, walletID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE %s = $1 AND kind = $2 AND status = 'completed' AND created_at >= $3`, column)

	var sum decimal.Decimal
	if err := tx.QueryRow(ctx, query, walletID, kind, since).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum completed %s: %w", kind, err)
	}
	return sum, nil
}

// ListByWallet fetches transactions touching a wallet, with filtering and pagination.
func (r *TransactionRepo) ListByWallet(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("(sender_wallet_id = $%d OR receiver_wallet_id = $%d)", argIdx, argIdx))
	args = append(args, params.WalletID)
	argIdx++

	if params.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argIdx))
		args = append(args, *params.Kind)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+`
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.Kind, &t.Amount, &t.Currency, &t.SenderWalletID, &t.ReceiverWalletID,
			&t.AgentID, &t.MerchantID, &t.PaymentLinkID, &t.Status, &t.Fee, &t.Reference,
			&t.Metadata, &t.CreatedAt, &t.ProcessedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// scanTransaction scans a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.Kind, &t.Amount, &t.Currency, &t.SenderWalletID, &t.ReceiverWalletID,
		&t.AgentID, &t.MerchantID, &t.PaymentLinkID, &t.Status, &t.Fee, &t.Reference,
		&t.Metadata, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
