package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	sender := uuid.New()
	receiver := uuid.New()
	return &domain.Transaction{
		ID:               uuid.New(),
		Kind:             domain.TransactionKindTransfer,
		Amount:           decimal.RequireFromString("300"),
		Currency:         "LYD",
		SenderWalletID:   &sender,
		ReceiverWalletID: &receiver,
		Status:           domain.TransactionStatusCompleted,
		Fee:              decimal.Zero,
		Reference:        "TRF1741608000000a1b2",
		CreatedAt:        now,
		ProcessedAt:      &now,
	}
}

func transactionTestColumns() []string {
	return []string{
		"id", "kind", "amount", "currency", "sender_wallet_id", "receiver_wallet_id",
		"agent_id", "merchant_id", "payment_link_id", "status", "fee", "reference",
		"metadata", "created_at", "processed_at",
	}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionTestColumns()).AddRow(
		t.ID, t.Kind, t.Amount, t.Currency, t.SenderWalletID, t.ReceiverWalletID,
		t.AgentID, t.MerchantID, t.PaymentLinkID, t.Status, t.Fee, t.Reference,
		t.Metadata, t.CreatedAt, t.ProcessedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.Kind, txn.Amount, txn.Currency, txn.SenderWalletID, txn.ReceiverWalletID,
			txn.AgentID, txn.MerchantID, txn.PaymentLinkID, txn.Status, txn.Fee, txn.Reference,
			txn.Metadata, txn.CreatedAt, txn.ProcessedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.Reference, result.Reference)
	assert.True(t, result.Amount.Equal(txn.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ReferenceExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("TRF1741608000000a1b2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	exists, err := repo.ReferenceExists(context.Background(), tx, "TRF1741608000000a1b2")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumCompletedSent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	since := time.Now().UTC().Truncate(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE.+ FROM transactions .+ sender_wallet_id").
		WithArgs(walletID, domain.TransactionKindTransfer, since).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("4800")))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	sum, err := repo.SumCompletedSent(context.Background(), tx, walletID, domain.TransactionKindTransfer, since)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("4800")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumCompletedReceived(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	since := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE.+ FROM transactions .+ receiver_wallet_id").
		WithArgs(walletID, domain.TransactionKindDeposit, since).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.Zero))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	sum, err := repo.SumCompletedReceived(context.Background(), tx, walletID, domain.TransactionKindDeposit, since)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()
	walletID := *txn.SenderWalletID

	mock.ExpectQuery("SELECT COUNT.+ FROM transactions").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions .+ ORDER BY created_at DESC").
		WithArgs(walletID, 20, 0).
		WillReturnRows(transactionRow(txn))

	txns, total, err := repo.ListByWallet(context.Background(), ports.TransactionListParams{
		WalletID: walletID,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet_WithKindFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	kind := domain.TransactionKindPayment

	mock.ExpectQuery("SELECT COUNT.+ FROM transactions").
		WithArgs(walletID, kind).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT .+ FROM transactions .+ kind").
		WithArgs(walletID, kind, 20, 0).
		WillReturnRows(pgxmock.NewRows(transactionTestColumns()))

	txns, total, err := repo.ListByWallet(context.Background(), ports.TransactionListParams{
		WalletID: walletID,
		Kind:     &kind,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}
