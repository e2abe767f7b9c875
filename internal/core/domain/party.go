package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStatus gates whether a customer profile may authorize operations.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "active"
	WalletStatusSuspended WalletStatus = "suspended"
	WalletStatusLocked    WalletStatus = "locked"
)

// CustomerProfile holds the PIN credential and wallet status for a
// customer. The engine reads it only to authorize operations.
type CustomerProfile struct {
	ID           uuid.UUID    `json:"id"`
	FullName     string       `json:"full_name"`
	PINHash      *string      `json:"-"` // Argon2id encoded, never exposed
	WalletStatus WalletStatus `json:"wallet_status"`
	WalletID     uuid.UUID    `json:"wallet_id"`
	CreatedAt    time.Time    `json:"created_at"`
}

// AgentStatus reflects whether an agent may service cash operations.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusSuspended AgentStatus = "suspended"
)

// Agent is an intermediary holding a physical cash float used to service
// customer deposits and withdrawals. The linked wallet, when present,
// mirrors the cash balance after every mutation.
type Agent struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Status      AgentStatus     `json:"status"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	WalletID    *uuid.UUID      `json:"wallet_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Merchant is a payment-receiving business. Payment links belong to a
// merchant and redeem only against that merchant's wallet.
type Merchant struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	WalletID  *uuid.UUID `json:"wallet_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
