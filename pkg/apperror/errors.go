package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

func ErrMissingFields(fields string) *AppError {
	return New("VAL_001", fmt.Sprintf("Missing required fields: %s", fields), http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Invalid amount", http.StatusBadRequest)
}

// Validation returns a generic VAL_003 validation error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_003", message, http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded(operation string) *AppError {
	return New("RATE_001", fmt.Sprintf("Too many %s attempts, try again later", operation), http.StatusTooManyRequests)
}

// ---- Policy Limits (POL) ----

func ErrAmountBelowMinimum() *AppError {
	return New("POL_001", "Amount is below the minimum for this operation", http.StatusUnprocessableEntity)
}

func ErrAmountAboveMaximum() *AppError {
	return New("POL_002", "Amount exceeds the maximum for this operation", http.StatusUnprocessableEntity)
}

func ErrDailyLimitExceeded() *AppError {
	return New("POL_003", "Daily limit exceeded for this operation", http.StatusUnprocessableEntity)
}

func ErrMonthlyLimitExceeded() *AppError {
	return New("POL_004", "Monthly limit exceeded for this operation", http.StatusUnprocessableEntity)
}

// ---- Authorization (AUTH) ----

func ErrInvalidPIN() *AppError {
	return New("AUTH_001", "Invalid PIN", http.StatusUnauthorized)
}

func ErrPINNotSet() *AppError {
	return New("AUTH_002", "No PIN is configured for this profile", http.StatusForbidden)
}

func ErrWalletNotActive(status string) *AppError {
	return New("AUTH_003", fmt.Sprintf("Wallet is %s", status), http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_004", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Ledger Business Logic (BIZ) ----

func ErrNotFound(entity string) *AppError {
	return New("BIZ_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInsufficientFunds() *AppError {
	return New("BIZ_002", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInsufficientAgentCash() *AppError {
	return New("BIZ_003", "Agent has insufficient cash for this operation", http.StatusPaymentRequired)
}

func ErrWalletInactive() *AppError {
	return New("BIZ_004", "Wallet is inactive", http.StatusForbidden)
}

func ErrWalletRoleMismatch(expected string) *AppError {
	return New("BIZ_005", fmt.Sprintf("Wallet is not owned by a %s", expected), http.StatusUnprocessableEntity)
}

func ErrSelfTransfer() *AppError {
	return New("BIZ_006", "Sender and receiver wallets must differ", http.StatusUnprocessableEntity)
}

func ErrAgentNotActive() *AppError {
	return New("BIZ_007", "Agent is not active", http.StatusForbidden)
}

func ErrPaymentLinkNotActive(status string) *AppError {
	return New("BIZ_008", fmt.Sprintf("Payment link is %s", status), http.StatusGone)
}

func ErrPaymentLinkAmountMismatch() *AppError {
	return New("BIZ_009", "Amount does not match the payment link amount", http.StatusUnprocessableEntity)
}

func ErrCurrencyMismatch() *AppError {
	return New("BIZ_010", "Wallet currencies do not match", http.StatusUnprocessableEntity)
}

func ErrPaymentLinkMerchantMismatch() *AppError {
	return New("BIZ_011", "Payment link does not belong to the receiving merchant", http.StatusUnprocessableEntity)
}

func ErrPaymentLinkExpired() *AppError {
	return New("BIZ_012", "Payment link has expired", http.StatusGone)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrReferenceGeneration(err error) *AppError {
	return Wrap("SYS_002", "Could not allocate a transaction reference", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
