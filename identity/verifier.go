// Package identity checks that a claimed wallet actually produced a signed
// payload. Verification is pure and fails closed: malformed identities or
// truncated signatures are reported as invalid, never as errors or panics.
package identity

import (
	"crypto/ed25519"
	"encoding/base64"

	"tokenlounge/domain"
)

type Verifier struct{}

func NewVerifier() Verifier {
	return Verifier{}
}

// Verify reports whether sig is a valid detached ed25519 signature of
// payload under the wallet public key.
func (Verifier) Verify(wallet domain.Wallet, payload, sig []byte) bool {
	if wallet.IsZero() || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(wallet[:]), payload, sig)
}

// VerifyEncoded is the wire-facing variant: the wallet arrives in base58
// and the signature in base64, exactly as carried by the auth event.
func (v Verifier) VerifyEncoded(walletAddr, payload, sigB64 string) bool {
	wallet, err := domain.ParseWallet(walletAddr)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false
	}
	return v.Verify(wallet, []byte(payload), sig)
}
