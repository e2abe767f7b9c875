package ports

import (
	"context"
	"time"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// LedgerService defines the four money-movement operations. Every
// operation runs the same pipeline: input validation, rate limiting,
// policy limits, authorization, then an atomic two-sided balance update.
type LedgerService interface {
	Transfer(ctx context.Context, req TransferRequest) (*LedgerResult, error)
	Deposit(ctx context.Context, req DepositRequest) (*LedgerResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*LedgerResult, error)
	PayLink(ctx context.Context, req PaymentRequest) (*LedgerResult, error)
}

// RequestMeta carries actor and client context shared by all operations.
type RequestMeta struct {
	ActorProfileID *uuid.UUID
	ClientIP       string
	UserAgent      string
}

// TransferRequest holds input for a wallet-to-wallet transfer.
// Amount is the raw client string; the service parses and validates it.
type TransferRequest struct {
	SenderWalletID   uuid.UUID
	ReceiverWalletID uuid.UUID
	Amount           string
	PIN              string
	Description      string
	Meta             RequestMeta
}

// DepositRequest holds input for an agent-serviced cash deposit.
type DepositRequest struct {
	AgentID          uuid.UUID
	CustomerWalletID uuid.UUID
	Amount           string
	PIN              string
	Meta             RequestMeta
}

// WithdrawRequest holds input for an agent-serviced cash withdrawal.
type WithdrawRequest struct {
	AgentID          uuid.UUID
	CustomerWalletID uuid.UUID
	Amount           string
	PIN              string
	Meta             RequestMeta
}

// PaymentRequest holds input for paying a merchant, optionally through
// a payment link.
type PaymentRequest struct {
	SenderWalletID   uuid.UUID
	MerchantWalletID uuid.UUID
	Amount           string
	PIN              string
	LinkID           *string // optional; fixed links pin the amount
	Meta             RequestMeta
}

// LedgerResult is returned by every successful operation: the committed
// ledger record plus the post-commit balances of the touched accounts.
// PriorBalances mirrors Balances with the values the same accounts held
// before the mutation, captured under the row locks; the audit trail
// records both sides.
type LedgerResult struct {
	Transaction   *domain.Transaction
	Balances      ResultBalances
	PriorBalances ResultBalances
}

// ResultBalances holds post-operation balances. Only the fields touched
// by the operation are set.
type ResultBalances struct {
	Sender    *decimal.Decimal `json:"sender,omitempty"`
	Receiver  *decimal.Decimal `json:"receiver,omitempty"`
	AgentCash *decimal.Decimal `json:"agent_cash,omitempty"`
}

// PaymentLinkView pairs a link with its owning merchant for the public
// checkout page. Merchant may be nil if the owner row is missing.
type PaymentLinkView struct {
	Link     *domain.PaymentLink
	Merchant *domain.Merchant
}

// PaymentLinkService defines public payment-link lookup with lazy expiry.
type PaymentLinkService interface {
	// GetByLinkID returns the link and its merchant, first flipping the
	// link to expired if its expiry has passed while it was still active.
	GetByLinkID(ctx context.Context, linkID string) (*PaymentLinkView, error)
}

// ReportingService defines wallet read-model queries.
type ReportingService interface {
	GetWalletBalance(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// --- Supporting Ports ---

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix seconds when the window resets
}

// RateLimitStore counts attempts per key within a fixed window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// PinAuthorizer verifies a customer's PIN for the wallet being debited
// or credited, and that the profile's wallet status permits operations.
type PinAuthorizer interface {
	AuthorizeWallet(ctx context.Context, walletID uuid.UUID, pin string) (*domain.CustomerProfile, error)
}

// PinHasher handles PIN hashing (Argon2id).
type PinHasher interface {
	Hash(pin string) (string, error)
	Verify(pin string, hash string) (bool, error)
}

// ReferenceGenerator allocates a unique human-readable transaction
// reference, collision-checked inside the caller's transaction.
type ReferenceGenerator interface {
	Generate(ctx context.Context, tx pgx.Tx, kind domain.TransactionKind) (string, error)
}

// AuditService records audit entries without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(profileID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ProfileID uuid.UUID
}
