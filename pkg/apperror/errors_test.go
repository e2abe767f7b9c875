package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("BIZ_002", "Insufficient balance in wallet", http.StatusPaymentRequired),
			expected: "[BIZ_002] Insufficient balance in wallet",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"MissingFields", ErrMissingFields("amount, pin"), "VAL_001", 400},
		{"InvalidAmount", ErrInvalidAmount(), "VAL_002", 400},
		{"Validation", Validation("bad input"), "VAL_003", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestPolicyErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"BelowMinimum", ErrAmountBelowMinimum(), "POL_001", 422},
		{"AboveMaximum", ErrAmountAboveMaximum(), "POL_002", 422},
		{"DailyLimit", ErrDailyLimitExceeded(), "POL_003", 422},
		{"MonthlyLimit", ErrMonthlyLimitExceeded(), "POL_004", 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidPIN", ErrInvalidPIN(), "AUTH_001", 401},
		{"PINNotSet", ErrPINNotSet(), "AUTH_002", 403},
		{"WalletNotActive", ErrWalletNotActive("suspended"), "AUTH_003", 403},
		{"InvalidToken", ErrInvalidToken(), "AUTH_004", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"NotFound", ErrNotFound("wallet"), "BIZ_001", 404},
		{"InsufficientFunds", ErrInsufficientFunds(), "BIZ_002", 402},
		{"InsufficientAgentCash", ErrInsufficientAgentCash(), "BIZ_003", 402},
		{"WalletInactive", ErrWalletInactive(), "BIZ_004", 403},
		{"WalletRoleMismatch", ErrWalletRoleMismatch("merchant"), "BIZ_005", 422},
		{"SelfTransfer", ErrSelfTransfer(), "BIZ_006", 422},
		{"AgentNotActive", ErrAgentNotActive(), "BIZ_007", 403},
		{"PaymentLinkNotActive", ErrPaymentLinkNotActive("completed"), "BIZ_008", 410},
		{"PaymentLinkAmountMismatch", ErrPaymentLinkAmountMismatch(), "BIZ_009", 422},
		{"CurrencyMismatch", ErrCurrencyMismatch(), "BIZ_010", 422},
		{"PaymentLinkMerchantMismatch", ErrPaymentLinkMerchantMismatch(), "BIZ_011", 422},
		{"PaymentLinkExpired", ErrPaymentLinkExpired(), "BIZ_012", 410},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	refErr := ErrReferenceGeneration(inner)
	assert.Equal(t, "SYS_002", refErr.Code)
	assert.Equal(t, 500, refErr.HTTPStatus)

	intErr := InternalError(inner)
	assert.Equal(t, "SYS_001", intErr.Code)
	assert.True(t, errors.Is(intErr, inner))
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded("transfer")
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
	assert.Contains(t, err.Message, "transfer")
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("payment link")
	assert.Contains(t, err.Message, "payment link")
	assert.Equal(t, "BIZ_001", err.Code)
}
