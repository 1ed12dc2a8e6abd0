package errors

import (
	"fmt"
	"time"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrInvalidWallet      = fmt.Errorf("invalid wallet address")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrGatewayUnavailable = fmt.Errorf("all ledger endpoints exhausted")
	ErrPayoutFailed       = fmt.Errorf("payout failed")
	ErrNothingToClaim     = fmt.Errorf("nothing to claim")
)

// AlreadyClaimedError is returned when a wallet retries a reward claim
// before its cooldown has elapsed. It carries the next instant at which
// a claim will be accepted so the API can report it.
type AlreadyClaimedError struct {
	NextEligibleAt time.Time
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("already claimed this period, next eligible at %s",
		e.NextEligibleAt.UTC().Format(time.RFC3339))
}
