package ports

import (
	"context"
	"time"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal, lastActivity time.Time) error
}

// TransactionRepository defines persistence operations for ledger records.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ReferenceExists(ctx context.Context, tx pgx.Tx, reference string) (bool, error)
	// SumCompletedSent sums completed transactions of a kind where the wallet
	// is the sender, created at or after since. SumCompletedReceived is the
	// receiver-side counterpart (used for deposits).
	SumCompletedSent(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error)
	SumCompletedReceived(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, kind domain.TransactionKind, since time.Time) (decimal.Decimal, error)
	// Reporting queries
	ListByWallet(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	WalletID uuid.UUID
	Kind     *domain.TransactionKind
	Status   *domain.TransactionStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// CustomerProfileRepository defines read access to customer profiles.
type CustomerProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerProfile, error)
	GetByWalletID(ctx context.Context, walletID uuid.UUID) (*domain.CustomerProfile, error)
}

// AgentRepository defines persistence operations for agents.
type AgentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Agent, error)
	UpdateCashBalance(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, cashBalance decimal.Decimal) error
}

// MerchantRepository defines read access to merchants.
type MerchantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
}

// PaymentLinkRepository defines persistence operations for payment links.
type PaymentLinkRepository interface {
	GetByLinkID(ctx context.Context, linkID string) (*domain.PaymentLink, error)
	GetByLinkIDForUpdate(ctx context.Context, tx pgx.Tx, linkID string) (*domain.PaymentLink, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentLinkStatus) error
	// MarkExpired flips an active link to expired outside any caller
	// transaction (lazy expiry on read).
	MarkExpired(ctx context.Context, id uuid.UUID) error
}

// AuditRepository defines persistence for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
