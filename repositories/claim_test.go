package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tokenlounge/domain"
)

func TestClaimRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	repo := NewClaimRepository(openTestDB(t), slog.Default())

	var wallet domain.Wallet
	wallet[0] = 7

	_, found, err := repo.LastClaim(wallet)
	req.NoError(err)
	req.False(found)

	first := time.Now().UTC().Truncate(time.Millisecond)
	req.NoError(repo.SetLastClaim(wallet, first))

	at, found, err := repo.LastClaim(wallet)
	req.NoError(err)
	req.True(found)
	req.Equal(first, at)

	// records are updated in place on later claims
	second := first.Add(25 * time.Hour)
	req.NoError(repo.SetLastClaim(wallet, second))
	at, found, err = repo.LastClaim(wallet)
	req.NoError(err)
	req.True(found)
	req.Equal(second, at)

	// another wallet is untouched
	var other domain.Wallet
	other[0] = 8
	_, found, err = repo.LastClaim(other)
	req.NoError(err)
	req.False(found)
}
