//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"tokenlounge/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ILedgerGateway is the read/write surface of the external ledger network.
// BalanceOf walks the configured endpoints in order and fails only once all
// are exhausted. SubmitTransfer blocks until the network confirms or the
// context expires; amounts are minor units of the reward token.
type ILedgerGateway interface {
	BalanceOf(ctx context.Context, owner, mint domain.Wallet) (float64, error)
	DeriveAssociatedAddress(mint, owner domain.Wallet) (domain.Wallet, error)
	SubmitTransfer(ctx context.Context, source, dest domain.Wallet, amount uint64) (string, error)
}

// IIdentityVerifier validates a detached signature under a wallet key.
type IIdentityVerifier interface {
	Verify(wallet domain.Wallet, payload, sig []byte) bool
	VerifyEncoded(walletAddr, payload, sigB64 string) bool
}
