package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Thresholds are closed at the lower bound: holding exactly the floor
// amount grants the tier.
func TestRankForBalance(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		balance  float64
		expected Rank
	}{
		{"zero balance", 0, RankUnranked},
		{"just below tier-1", 99_999.999, RankUnranked},
		{"exactly tier-1", 100_000, RankTier1},
		{"inside tier-1", 120_000, RankTier1},
		{"exactly tier-2", 250_000, RankTier2},
		{"exactly tier-3", 500_000, RankTier3},
		{"exactly tier-4", 750_000, RankTier4},
		{"just below tier-5", 999_999.5, RankTier4},
		{"exactly tier-5", 1_000_000, RankTier5},
		{"far above tier-5", 123_456_789, RankTier5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, RankForBalance(tt.balance))
		})
	}
}

func TestParseWallet(t *testing.T) {
	req := require.New(t)

	// 32 bytes of 0x01 in base58
	valid := Wallet{}
	for i := range valid {
		valid[i] = 1
	}
	parsed, err := ParseWallet(valid.String())
	req.NoError(err)
	req.Equal(valid, parsed)

	_, err = ParseWallet("not-base58-###")
	req.Error(err)

	// valid base58 but wrong length
	_, err = ParseWallet("abc")
	req.Error(err)

	req.True(Wallet{}.IsZero())
	req.False(valid.IsZero())
}
