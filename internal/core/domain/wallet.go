package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerRole identifies which kind of party owns a wallet.
type OwnerRole string

const (
	OwnerRoleCustomer OwnerRole = "customer"
	OwnerRoleMerchant OwnerRole = "merchant"
	OwnerRoleAgent    OwnerRole = "agent"
)

// Wallet is a balance-holding account owned by exactly one customer,
// merchant or agent. Balances are mutated only by the ledger service,
// always inside a database transaction.
type Wallet struct {
	ID           uuid.UUID       `json:"id"`
	OwnerRole    OwnerRole       `json:"owner_role"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
	Active       bool            `json:"active"`
	LastActivity time.Time       `json:"last_activity"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
