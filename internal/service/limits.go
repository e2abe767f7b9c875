package service

import (
	"time"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/shopspring/decimal"
)

// kindPolicy holds the per-operation amount bounds, rolling caps and
// rate limit. Amounts are currency-agnostic units.
type kindPolicy struct {
	Min        decimal.Decimal
	Max        decimal.Decimal
	DailyMax   decimal.Decimal
	MonthlyMax decimal.Decimal
	RateLimit  int64
	RateWindow time.Duration
}

var kindPolicies = map[domain.TransactionKind]kindPolicy{
	domain.TransactionKindTransfer: {
		Min:        decimal.NewFromInt(1),
		Max:        decimal.NewFromInt(1000),
		DailyMax:   decimal.NewFromInt(5000),
		MonthlyMax: decimal.NewFromInt(50000),
		RateLimit:  10,
		RateWindow: 15 * time.Minute,
	},
	domain.TransactionKindDeposit: {
		Min:        decimal.NewFromInt(1),
		Max:        decimal.NewFromInt(10000),
		DailyMax:   decimal.NewFromInt(10000),
		MonthlyMax: decimal.NewFromInt(100000),
		RateLimit:  5,
		RateWindow: 15 * time.Minute,
	},
	domain.TransactionKindWithdrawal: {
		Min:        decimal.NewFromInt(1),
		Max:        decimal.NewFromInt(5000),
		DailyMax:   decimal.NewFromInt(5000),
		MonthlyMax: decimal.NewFromInt(50000),
		RateLimit:  5,
		RateWindow: 15 * time.Minute,
	},
	domain.TransactionKindPayment: {
		Min:        decimal.NewFromInt(1),
		Max:        decimal.NewFromInt(5000),
		DailyMax:   decimal.NewFromInt(10000),
		MonthlyMax: decimal.NewFromInt(100000),
		RateLimit:  20,
		RateWindow: 15 * time.Minute,
	},
}

// policyFor returns the policy for a kind. Kinds are a closed set, so a
// missing entry is a programming error caught by the zero policy's
// impossible bounds.
func policyFor(kind domain.TransactionKind) kindPolicy {
	return kindPolicies[kind]
}

// startOfDay returns midnight of the given time in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfMonth returns the first midnight of the given time's month.
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
