package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaymentLink() *domain.PaymentLink {
	return &domain.PaymentLink{
		ID:          uuid.New(),
		LinkID:      "pl_7f3k2m",
		MerchantID:  uuid.New(),
		Amount:      decimal.RequireFromString("50"),
		Currency:    "LYD",
		Description: "Coffee order",
		Type:        domain.PaymentLinkTypeFixed,
		Status:      domain.PaymentLinkStatusActive,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func paymentLinkRow(l *domain.PaymentLink) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "link_id", "merchant_id", "amount", "currency",
		"description", "type", "status", "expiry", "created_at",
	}).AddRow(
		l.ID, l.LinkID, l.MerchantID, l.Amount, l.Currency,
		l.Description, l.Type, l.Status, l.Expiry, l.CreatedAt,
	)
}

func TestPaymentLinkRepo_GetByLinkID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentLinkRepo(mock)
	l := newTestPaymentLink()

	mock.ExpectQuery("SELECT .+ FROM payment_links WHERE link_id").
		WithArgs(l.LinkID).
		WillReturnRows(paymentLinkRow(l))

	result, err := repo.GetByLinkID(context.Background(), l.LinkID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, l.ID, result.ID)
	assert.Equal(t, domain.PaymentLinkTypeFixed, result.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentLinkRepo_GetByLinkIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentLinkRepo(mock)
	l := newTestPaymentLink()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM payment_links WHERE link_id .+ FOR UPDATE").
		WithArgs(l.LinkID).
		WillReturnRows(paymentLinkRow(l))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByLinkIDForUpdate(context.Background(), tx, l.LinkID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, l.LinkID, result.LinkID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentLinkRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentLinkRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payment_links SET status").
		WithArgs(domain.PaymentLinkStatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.PaymentLinkStatusCompleted)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentLinkRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentLinkRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payment_links SET status").
		WithArgs(domain.PaymentLinkStatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.PaymentLinkStatusCompleted)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "payment link not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentLinkRepo_MarkExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentLinkRepo(mock)
	id := uuid.New()

	// Expiring a link that a concurrent payment just completed affects
	// zero rows and is not an error.
	mock.ExpectExec("UPDATE payment_links SET status = 'expired'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkExpired(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
