package service

import (
	"context"
	"fmt"
	"strconv"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/apperror"

	"github.com/google/uuid"
)

// pinAuthorizer implements ports.PinAuthorizer against the customer
// profile store.
type pinAuthorizer struct {
	profileRepo ports.CustomerProfileRepository
	hasher      ports.PinHasher
}

// NewPinAuthorizer creates a new PIN authorizer.
func NewPinAuthorizer(profileRepo ports.CustomerProfileRepository, hasher ports.PinHasher) ports.PinAuthorizer {
	return &pinAuthorizer{profileRepo: profileRepo, hasher: hasher}
}

// AuthorizeWallet authorizes an operation against the customer owning
// the given wallet. PINs are numeric; a non-numeric submission fails the
// same way as a mismatch so the two are indistinguishable to a caller.
func (a *pinAuthorizer) AuthorizeWallet(ctx context.Context, walletID uuid.UUID, pin string) (*domain.CustomerProfile, error) {
	profile, err := a.profileRepo.GetByWalletID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("customer profile")
	}
	if profile.PINHash == nil || *profile.PINHash == "" {
		return nil, apperror.ErrPINNotSet()
	}
	if profile.WalletStatus != domain.WalletStatusActive {
		return nil, apperror.ErrWalletNotActive(string(profile.WalletStatus))
	}

	if _, err := strconv.Atoi(pin); err != nil {
		return nil, apperror.ErrInvalidPIN()
	}

	ok, err := a.hasher.Verify(pin, *profile.PINHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify pin: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidPIN()
	}
	return profile, nil
}
