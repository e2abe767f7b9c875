package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// paymentLinkService implements ports.PaymentLinkService.
type paymentLinkService struct {
	linkRepo     ports.PaymentLinkRepository
	merchantRepo ports.MerchantRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewPaymentLinkService creates a new payment link service.
func NewPaymentLinkService(linkRepo ports.PaymentLinkRepository, merchantRepo ports.MerchantRepository, log zerolog.Logger) ports.PaymentLinkService {
	return &paymentLinkService{linkRepo: linkRepo, merchantRepo: merchantRepo, log: log, now: time.Now}
}

// GetByLinkID looks up a payment link by its public identifier. An
// active link whose expiry has passed is flipped to expired before it is
// returned (lazy expiry on read). The owning merchant is loaded for
// display; a missing merchant row does not hide the link.
func (s *paymentLinkService) GetByLinkID(ctx context.Context, linkID string) (*ports.PaymentLinkView, error) {
	link, err := s.linkRepo.GetByLinkID(ctx, linkID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get payment link: %w", err))
	}
	if link == nil {
		return nil, apperror.ErrNotFound("payment link")
	}

	if link.Status == domain.PaymentLinkStatusActive && link.IsExpired(s.now()) {
		if err := s.linkRepo.MarkExpired(ctx, link.ID); err != nil {
			s.log.Warn().Err(err).Str("link_id", linkID).Msg("failed to mark payment link expired")
		}
		link.Status = domain.PaymentLinkStatusExpired
	}

	merchant, err := s.merchantRepo.GetByID(ctx, link.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	return &ports.PaymentLinkView{Link: link, Merchant: merchant}, nil
}
