package domain

// Rank is a discrete membership tier derived solely from the current token
// balance of a wallet. It is recomputed server side, never trusted from the
// client.
type Rank string

const (
	RankUnranked Rank = "unranked"
	RankTier1    Rank = "tier-1"
	RankTier2    Rank = "tier-2"
	RankTier3    Rank = "tier-3"
	RankTier4    Rank = "tier-4"
	RankTier5    Rank = "tier-5"
)

type threshold struct {
	floor float64
	rank  Rank
}

// Ordered highest first, first match wins. Lower bounds are inclusive:
// a balance of exactly 100000 is tier-1.
var thresholds = []threshold{
	{1_000_000, RankTier5},
	{750_000, RankTier4},
	{500_000, RankTier3},
	{250_000, RankTier2},
	{100_000, RankTier1},
}

// RankForBalance maps a token balance to its membership tier.
func RankForBalance(balance float64) Rank {
	for _, t := range thresholds {
		if balance >= t.floor {
			return t.rank
		}
	}
	return RankUnranked
}
