package ledger

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"

	"tokenlounge/domain"
)

// Well-known program identifiers of the token and associated-token programs.
var (
	tokenProgramID           = domain.MustWallet("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	associatedTokenProgramID = domain.MustWallet("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

const derivedAddressMarker = "ProgramDerivedAddress"

// DeriveAssociatedAddress computes the holding address for a token under an
// owner. The derivation is pure and deterministic: callers build transfer
// instructions from it without any network round trip.
func DeriveAssociatedAddress(mint, owner domain.Wallet) (domain.Wallet, error) {
	return findProgramAddress(
		[][]byte{owner[:], tokenProgramID[:], mint[:]},
		associatedTokenProgramID,
	)
}

// findProgramAddress searches bump seeds from 255 downward for the first
// candidate hash that does not decode as an ed25519 curve point. Program
// addresses must have no private key, hence the off-curve requirement.
func findProgramAddress(seeds [][]byte, program domain.Wallet) (domain.Wallet, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(program[:])
		h.Write([]byte(derivedAddressMarker))

		var candidate domain.Wallet
		copy(candidate[:], h.Sum(nil))
		if !isOnCurve(candidate[:]) {
			return candidate, nil
		}
	}
	return domain.Wallet{}, fmt.Errorf("no viable program address for seeds")
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
