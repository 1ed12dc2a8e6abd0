package rewards

import (
	"sync"
	"time"

	"tokenlounge/domain"
	"tokenlounge/repositories"
)

// Decision is the outcome of a claim attempt against the cooldown window.
// NextEligibleAt is only meaningful when Allowed is false.
type Decision struct {
	Allowed        bool
	NextEligibleAt time.Time
}

// ClaimLedger gates reward claims behind a per-wallet cooldown.
//
// The read-check-write on the claim record runs under one lock, so when the
// same wallet races two claims exactly one is admitted. The claim instant is
// written before any payout happens and is kept even when the payout later
// fails, which errs on the side of the pool wallet.
type ClaimLedger struct {
	mu       sync.Mutex
	claims   repositories.IClaimRepository
	cooldown time.Duration
}

func NewClaimLedger(claims repositories.IClaimRepository, cooldown time.Duration) *ClaimLedger {
	return &ClaimLedger{claims: claims, cooldown: cooldown}
}

// TryBeginClaim admits the claim and records now as the wallet's claim
// instant when the cooldown has elapsed, or reports when the wallet becomes
// eligible again.
func (l *ClaimLedger) TryBeginClaim(wallet domain.Wallet, now time.Time) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, found, err := l.claims.LastClaim(wallet)
	if err != nil {
		return Decision{}, err
	}
	if found && now.Sub(last) < l.cooldown {
		return Decision{NextEligibleAt: last.Add(l.cooldown)}, nil
	}
	if err := l.claims.SetLastClaim(wallet, now); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true}, nil
}

// LastClaim exposes the stored claim instant for quoting.
func (l *ClaimLedger) LastClaim(wallet domain.Wallet) (time.Time, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claims.LastClaim(wallet)
}

// Cooldown returns the configured cooldown window.
func (l *ClaimLedger) Cooldown() time.Duration {
	return l.cooldown
}
