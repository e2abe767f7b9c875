package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"wallet-ledger-engine/internal/core/domain"
	"wallet-ledger-engine/internal/core/ports"
	"wallet-ledger-engine/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

const (
	referenceRandomLen = 4
	referenceAttempts  = 3
	base36Alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// referenceGenerator implements ports.ReferenceGenerator. References
// take the form <PREFIX><epoch-millis><4 random base36 chars> and are
// collision-checked against the ledger inside the caller's transaction.
type referenceGenerator struct {
	txRepo ports.TransactionRepository
	now    func() time.Time
}

// NewReferenceGenerator creates a collision-checked reference generator.
func NewReferenceGenerator(txRepo ports.TransactionRepository) ports.ReferenceGenerator {
	return &referenceGenerator{txRepo: txRepo, now: time.Now}
}

// Generate allocates a unique reference for the kind. The time prefix
// makes collisions rare; the existence check makes them impossible
// within a committed ledger.
func (g *referenceGenerator) Generate(ctx context.Context, tx pgx.Tx, kind domain.TransactionKind) (string, error) {
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		suffix, err := randomBase36(referenceRandomLen)
		if err != nil {
			return "", apperror.ErrReferenceGeneration(err)
		}
		ref := fmt.Sprintf("%s%d%s", kind.ReferencePrefix(), g.now().UnixMilli(), suffix)

		exists, err := g.txRepo.ReferenceExists(ctx, tx, ref)
		if err != nil {
			return "", apperror.ErrReferenceGeneration(fmt.Errorf("check reference: %w", err))
		}
		if !exists {
			return ref, nil
		}
	}
	return "", apperror.ErrReferenceGeneration(fmt.Errorf("exhausted %d attempts", referenceAttempts))
}

func randomBase36(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf), nil
}
