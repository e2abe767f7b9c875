package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the kind of money movement.
type TransactionKind string

const (
	TransactionKindTransfer   TransactionKind = "transfer"
	TransactionKindDeposit    TransactionKind = "deposit"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindPayment    TransactionKind = "payment"
)

// TransactionStatus is the persisted lifecycle state. The engine only
// ever writes terminal states; there is no observable pending row.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable ledger record. A row exists iff both
// balance mutations of the operation committed.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	Kind             TransactionKind   `json:"kind"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	SenderWalletID   *uuid.UUID        `json:"sender_wallet_id,omitempty"`
	ReceiverWalletID *uuid.UUID        `json:"receiver_wallet_id,omitempty"`
	AgentID          *uuid.UUID        `json:"agent_id,omitempty"`
	MerchantID       *uuid.UUID        `json:"merchant_id,omitempty"`
	PaymentLinkID    *uuid.UUID        `json:"payment_link_id,omitempty"`
	Status           TransactionStatus `json:"status"`
	Fee              decimal.Decimal   `json:"fee"`
	Reference        string            `json:"reference"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ProcessedAt      *time.Time        `json:"processed_at,omitempty"`
}

// ReferencePrefix returns the human-readable reference prefix for a kind.
func (k TransactionKind) ReferencePrefix() string {
	switch k {
	case TransactionKindTransfer:
		return "TRF"
	case TransactionKindDeposit:
		return "DEP"
	case TransactionKindWithdrawal:
		return "WDR"
	case TransactionKindPayment:
		return "PAY"
	}
	return "TXN"
}
