package service

import (
	"context"
	"testing"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupPaymentLinkService(t *testing.T) (*paymentLinkService, *mocks.MockPaymentLinkRepository, *mocks.MockMerchantRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	linkRepo := mocks.NewMockPaymentLinkRepository(ctrl)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	svc := NewPaymentLinkService(linkRepo, merchantRepo, zerolog.Nop()).(*paymentLinkService)
	svc.now = func() time.Time { return fixedNow }
	return svc, linkRepo, merchantRepo
}

func TestGetByLinkID_Active(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeFixed)
	merchant := &domain.Merchant{ID: link.MerchantID, Name: "Corner Grocery"}

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(merchant, nil)

	got, err := svc.GetByLinkID(context.Background(), link.LinkID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentLinkStatusActive, got.Link.Status)
	require.NotNil(t, got.Merchant)
	assert.Equal(t, "Corner Grocery", got.Merchant.Name)
}

func TestGetByLinkID_NotFound(t *testing.T) {
	svc, linkRepo, _ := setupPaymentLinkService(t)

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), "pl_missing").Return(nil, nil)

	_, err := svc.GetByLinkID(context.Background(), "pl_missing")

	assertAppError(t, err, "BIZ_001")
}

func TestGetByLinkID_MissingMerchantStillReturnsLink(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeFixed)

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(nil, nil)

	got, err := svc.GetByLinkID(context.Background(), link.LinkID)

	require.NoError(t, err)
	assert.Nil(t, got.Merchant)
	assert.Equal(t, link.LinkID, got.Link.LinkID)
}

func TestGetByLinkID_LazyExpiry(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeFixed)
	expiry := fixedNow.Add(-time.Minute)
	link.Expiry = &expiry

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	linkRepo.EXPECT().MarkExpired(gomock.Any(), link.ID).Return(nil)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(nil, nil)

	got, err := svc.GetByLinkID(context.Background(), link.LinkID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentLinkStatusExpired, got.Link.Status)
}

func TestGetByLinkID_LazyExpiryWriteFailureStillReturnsExpired(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeVariable)
	expiry := fixedNow.Add(-time.Minute)
	link.Expiry = &expiry

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	linkRepo.EXPECT().MarkExpired(gomock.Any(), link.ID).Return(assert.AnError)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(nil, nil)

	got, err := svc.GetByLinkID(context.Background(), link.LinkID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentLinkStatusExpired, got.Link.Status)
}

func TestGetByLinkID_CompletedLinkNotTouched(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeFixed)
	link.Status = domain.PaymentLinkStatusCompleted
	expiry := fixedNow.Add(-time.Minute)
	link.Expiry = &expiry

	// A completed link is returned as-is even when its expiry has passed.
	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(nil, nil)

	got, err := svc.GetByLinkID(context.Background(), link.LinkID)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentLinkStatusCompleted, got.Link.Status)
}

func TestGetByLinkID_MerchantLookupError(t *testing.T) {
	svc, linkRepo, merchantRepo := setupPaymentLinkService(t)
	link := activeLink("50", domain.PaymentLinkTypeFixed)

	linkRepo.EXPECT().GetByLinkID(gomock.Any(), link.LinkID).Return(link, nil)
	merchantRepo.EXPECT().GetByID(gomock.Any(), link.MerchantID).Return(nil, assert.AnError)

	_, err := svc.GetByLinkID(context.Background(), link.LinkID)

	assertAppError(t, err, "SYS_001")
}
