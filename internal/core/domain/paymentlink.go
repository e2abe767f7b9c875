package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentLinkType distinguishes fixed-amount links from variable ones.
type PaymentLinkType string

const (
	PaymentLinkTypeFixed    PaymentLinkType = "fixed"
	PaymentLinkTypeVariable PaymentLinkType = "variable"
)

// PaymentLinkStatus is the redemption state of a link.
type PaymentLinkStatus string

const (
	PaymentLinkStatusActive    PaymentLinkStatus = "active"
	PaymentLinkStatusCompleted PaymentLinkStatus = "completed"
	PaymentLinkStatusExpired   PaymentLinkStatus = "expired"
)

// PaymentLink is a merchant-created request for payment, redeemable once.
// A fixed link accepts only its exact amount; a variable link accepts any
// amount within the payment kind limits.
type PaymentLink struct {
	ID          uuid.UUID         `json:"id"`
	LinkID      string            `json:"link_id"` // public identifier embedded in URLs
	MerchantID  uuid.UUID         `json:"merchant_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Type        PaymentLinkType   `json:"type"`
	Status      PaymentLinkStatus `json:"status"`
	Expiry      *time.Time        `json:"expiry,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// IsExpired reports whether the link's expiry has passed at the given time.
func (l *PaymentLink) IsExpired(now time.Time) bool {
	return l.Expiry != nil && l.Expiry.Before(now)
}
