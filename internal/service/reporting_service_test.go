package service

import (
	"context"
	"testing"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupReportingService(t *testing.T) (ports.ReportingService, *mocks.MockTransactionRepository, *mocks.MockWalletRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	return NewReportingService(txRepo, walletRepo), txRepo, walletRepo
}

func TestGetWalletBalance_Success(t *testing.T) {
	svc, _, walletRepo := setupReportingService(t)
	walletID := uuid.New()
	wallet := customerWallet(walletID, "123.45")

	walletRepo.EXPECT().GetByID(gomock.Any(), walletID).Return(wallet, nil)

	got, err := svc.GetWalletBalance(context.Background(), walletID)

	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(mustDec("123.45")))
}

func TestGetWalletBalance_NotFound(t *testing.T) {
	svc, _, walletRepo := setupReportingService(t)
	walletID := uuid.New()

	walletRepo.EXPECT().GetByID(gomock.Any(), walletID).Return(nil, nil)

	_, err := svc.GetWalletBalance(context.Background(), walletID)

	assertAppError(t, err, "BIZ_001")
}

func TestListTransactions_ClampsPagination(t *testing.T) {
	svc, txRepo, _ := setupReportingService(t)
	walletID := uuid.New()

	txRepo.EXPECT().
		ListByWallet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			return []domain.Transaction{}, 0, nil
		})

	_, _, err := svc.ListTransactions(context.Background(), ports.TransactionListParams{
		WalletID: walletID,
		Page:     0,
		PageSize: 500,
	})

	require.NoError(t, err)
}

func TestListTransactions_PassesFilters(t *testing.T) {
	svc, txRepo, _ := setupReportingService(t)
	walletID := uuid.New()
	kind := domain.TransactionKindTransfer

	txRepo.EXPECT().
		ListByWallet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
			require.NotNil(t, params.Kind)
			assert.Equal(t, kind, *params.Kind)
			return []domain.Transaction{{ID: uuid.New(), Kind: kind}}, 1, nil
		})

	txns, total, err := svc.ListTransactions(context.Background(), ports.TransactionListParams{
		WalletID: walletID,
		Kind:     &kind,
		Page:     1,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(1), total)
}
