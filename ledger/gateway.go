package ledger

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"tokenlounge/domain"
)

// Gateway implements contract.ILedgerGateway: balance reads through the
// failover client, pure address derivation, and custodial transfers signed
// with the server-held reward key. The claimant never signs anything here.
type Gateway struct {
	client          *Client
	authority       ed25519.PrivateKey
	authorityWallet domain.Wallet
	confirmPoll     time.Duration
}

// NewGateway wraps the RPC client with the custodial signing authority.
// secret is the base58-encoded 64-byte ed25519 private key of the reward
// account.
func NewGateway(client *Client, secret string) (*Gateway, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode reward authority secret: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("reward authority secret: expected %d bytes, got %d",
			ed25519.PrivateKeySize, len(raw))
	}
	key := ed25519.PrivateKey(raw)

	var wallet domain.Wallet
	copy(wallet[:], key.Public().(ed25519.PublicKey))

	return &Gateway{
		client:          client,
		authority:       key,
		authorityWallet: wallet,
		confirmPoll:     500 * time.Millisecond,
	}, nil
}

// AuthorityWallet is the public identity of the custodial reward account.
func (g *Gateway) AuthorityWallet() domain.Wallet {
	return g.authorityWallet
}

func (g *Gateway) BalanceOf(ctx context.Context, owner, mint domain.Wallet) (float64, error) {
	return g.client.BalanceOf(ctx, owner, mint)
}

func (g *Gateway) DeriveAssociatedAddress(mint, owner domain.Wallet) (domain.Wallet, error) {
	return DeriveAssociatedAddress(mint, owner)
}

// SubmitTransfer builds, signs, submits and confirms a token transfer of
// amount minor units from source to dest. It blocks until the network
// confirms or ctx expires. No state is mutated anywhere on failure.
func (g *Gateway) SubmitTransfer(ctx context.Context, source, dest domain.Wallet, amount uint64) (string, error) {
	blockhash, err := g.client.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch blockhash: %w", err)
	}

	message := buildTransferMessage(g.authorityWallet, source, dest, amount, blockhash)
	signature := ed25519.Sign(g.authority, message)
	tx := serializeTransaction(signature, message)

	sig, err := g.client.SendTransaction(ctx, base64.StdEncoding.EncodeToString(tx))
	if err != nil {
		return "", fmt.Errorf("submit transfer: %w", err)
	}
	if err := g.client.AwaitConfirmation(ctx, sig, g.confirmPoll); err != nil {
		return "", fmt.Errorf("confirm transfer %s: %w", sig, err)
	}
	return sig, nil
}
