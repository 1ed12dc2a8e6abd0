package rewards

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"tokenlounge/domain"
	"tokenlounge/repositories"
)

func openTestClaims(t *testing.T) repositories.ClaimRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repositories.NewClaimRepository(db, slog.Default())
}

func TestClaimLedger_CooldownWindow(t *testing.T) {
	req := require.New(t)
	ledger := NewClaimLedger(openTestClaims(t), 24*time.Hour)

	var wallet domain.Wallet
	wallet[0] = 1
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	decision, err := ledger.TryBeginClaim(wallet, start)
	req.NoError(err)
	req.True(decision.Allowed)

	// too early, down to the last second of the window
	decision, err = ledger.TryBeginClaim(wallet, start.Add(24*time.Hour-time.Second))
	req.NoError(err)
	req.False(decision.Allowed)
	req.Equal(start.Add(24*time.Hour), decision.NextEligibleAt)

	// exactly at the boundary the claim is admitted again
	decision, err = ledger.TryBeginClaim(wallet, start.Add(24*time.Hour))
	req.NoError(err)
	req.True(decision.Allowed)
}

func TestClaimLedger_WalletsAreIndependent(t *testing.T) {
	req := require.New(t)
	ledger := NewClaimLedger(openTestClaims(t), 24*time.Hour)

	var first, second domain.Wallet
	first[0] = 1
	second[0] = 2
	now := time.Now().UTC()

	decision, err := ledger.TryBeginClaim(first, now)
	req.NoError(err)
	req.True(decision.Allowed)

	decision, err = ledger.TryBeginClaim(second, now)
	req.NoError(err)
	req.True(decision.Allowed)
}

func TestClaimLedger_ConcurrentClaimsAdmitExactlyOne(t *testing.T) {
	req := require.New(t)
	ledger := NewClaimLedger(openTestClaims(t), 24*time.Hour)

	var wallet domain.Wallet
	wallet[0] = 9
	now := time.Now().UTC()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := ledger.TryBeginClaim(wallet, now)
			req.NoError(err)
			if decision.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	req.Equal(int64(1), admitted.Load())
}
