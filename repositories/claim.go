//go:generate go run go.uber.org/mock/mockgen -source=claim.go -destination=../mocks/mock_claim_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"tokenlounge/domain"
)

const claimKeyPrefix = "claim:"

type IClaimRepository interface {
	LastClaim(wallet domain.Wallet) (time.Time, bool, error)
	SetLastClaim(wallet domain.Wallet, at time.Time) error
}

// ClaimRepository persists the last successful reward claim per wallet.
// Records are only ever created or overwritten, never deleted.
type ClaimRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewClaimRepository(db *badger.DB, log *slog.Logger) ClaimRepository {
	return ClaimRepository{db: db, log: log}
}

// LastClaim returns the recorded claim instant and whether one exists.
func (c ClaimRepository) LastClaim(wallet domain.Wallet) (time.Time, bool, error) {
	var at time.Time
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(claimKey(wallet))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			parsed, err := time.Parse(time.RFC3339Nano, string(value))
			if err != nil {
				return fmt.Errorf("corrupt claim record for %s: %w", wallet, err)
			}
			at = parsed
			found = true
			return nil
		})
	})
	return at, found, err
}

func (c ClaimRepository) SetLastClaim(wallet domain.Wallet, at time.Time) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(claimKey(wallet), []byte(at.UTC().Format(time.RFC3339Nano)))
	})
}

func claimKey(wallet domain.Wallet) []byte {
	return []byte(claimKeyPrefix + wallet.String())
}
