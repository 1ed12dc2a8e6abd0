// Package domain contains core concepts of the lounge: wallets, ranks,
// messages and reward claims. Types here carry no I/O.
package domain

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const WalletSize = 32

// Wallet is a 32-byte ed25519 public identity, rendered in base58 on the wire.
// The server never holds the matching private key except for the custodial
// reward authority.
type Wallet [WalletSize]byte

// ParseWallet decodes a base58 wallet address.
// Any malformed input yields an error, never a partially filled Wallet.
func ParseWallet(s string) (Wallet, error) {
	var w Wallet
	raw, err := base58.Decode(s)
	if err != nil {
		return Wallet{}, fmt.Errorf("decode wallet %q: %w", s, err)
	}
	if len(raw) != WalletSize {
		return Wallet{}, fmt.Errorf("wallet %q: expected %d bytes, got %d", s, WalletSize, len(raw))
	}
	copy(w[:], raw)
	return w, nil
}

// MustWallet panics on malformed input. Reserved for constants and tests.
func MustWallet(s string) Wallet {
	w, err := ParseWallet(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Wallet) String() string {
	return base58.Encode(w[:])
}

func (w Wallet) IsZero() bool {
	return w == Wallet{}
}
