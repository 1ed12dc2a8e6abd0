package domain

import "time"

// ClaimRecord tracks the last successful reward claim of a wallet.
// Records are created on first claim and updated in place afterwards,
// never deleted.
type ClaimRecord struct {
	Wallet    Wallet
	LastClaim time.Time
}

// RewardQuote is the ephemeral answer to "what can this wallet claim now".
// It is recomputed on every request and never persisted.
type RewardQuote struct {
	Balance     float64
	DailyReward float64
	Claimable   bool
	LastClaim   time.Time // zero when the wallet never claimed
}

// DailyReward computes the daily yield for a balance at a yearly rate.
func DailyReward(balance, yearlyRate float64) float64 {
	return balance * yearlyRate / 365
}
