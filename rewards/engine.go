package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"tokenlounge/contract"
	"tokenlounge/domain"
	"tokenlounge/errors"
	"tokenlounge/observability"
	"tokenlounge/repositories"
)

// EngineConfig carries the reward policy.
type EngineConfig struct {
	Mint         domain.Wallet
	RewardWallet domain.Wallet
	Decimals     uint8
	YearlyRate   float64
	Cooldown     time.Duration
}

// ClaimResult describes a paid-out claim.
type ClaimResult struct {
	Amount     float64
	MinorUnits uint64
	Signature  string
}

// Engine quotes and pays out daily rewards.
//
// A wallet's daily reward is its live token balance times the yearly rate
// divided by 365, paid from the pool wallet's token account. Claims are
// admitted by the ClaimLedger at most once per cooldown window.
type Engine struct {
	gateway contract.ILedgerGateway
	ledger  *ClaimLedger
	cfg     EngineConfig
	stats   *observability.Stats
	log     *slog.Logger
	now     func() time.Time
}

func NewEngine(gateway contract.ILedgerGateway, claims repositories.IClaimRepository, cfg EngineConfig, stats *observability.Stats, log *slog.Logger) *Engine {
	return &Engine{
		gateway: gateway,
		ledger:  NewClaimLedger(claims, cfg.Cooldown),
		cfg:     cfg,
		stats:   stats,
		log:     log,
		now:     time.Now,
	}
}

// Quote computes what the wallet could claim right now. Nothing is written.
func (e *Engine) Quote(ctx context.Context, wallet domain.Wallet) (domain.RewardQuote, error) {
	balance, err := e.gateway.BalanceOf(ctx, wallet, e.cfg.Mint)
	if err != nil {
		return domain.RewardQuote{}, err
	}
	last, found, err := e.ledger.LastClaim(wallet)
	if err != nil {
		return domain.RewardQuote{}, err
	}
	daily := domain.DailyReward(balance, e.cfg.YearlyRate)
	// a reward that floors to zero minor units cannot be transferred, so it
	// is reported as unclaimable rather than letting Claim burn the cooldown
	// on an empty payout
	quote := domain.RewardQuote{
		Balance:     balance,
		DailyReward: daily,
		Claimable:   e.minorUnits(daily) > 0 && (!found || e.now().Sub(last) >= e.cfg.Cooldown),
	}
	if found {
		quote.LastClaim = last
	}
	return quote, nil
}

// Claim pays out the wallet's daily reward.
//
// The claim instant is recorded before the transfer is submitted. When the
// transfer then fails the instant is kept, so a wallet cannot farm payout
// errors into extra claims; the operator reconciles from the logs.
func (e *Engine) Claim(ctx context.Context, wallet domain.Wallet) (ClaimResult, error) {
	balance, err := e.gateway.BalanceOf(ctx, wallet, e.cfg.Mint)
	if err != nil {
		return ClaimResult{}, err
	}
	daily := domain.DailyReward(balance, e.cfg.YearlyRate)
	minor := e.minorUnits(daily)
	if minor == 0 {
		return ClaimResult{}, errors.ErrNothingToClaim
	}

	decision, err := e.ledger.TryBeginClaim(wallet, e.now())
	if err != nil {
		return ClaimResult{}, err
	}
	if !decision.Allowed {
		e.stats.ClaimDenied()
		return ClaimResult{}, &errors.AlreadyClaimedError{NextEligibleAt: decision.NextEligibleAt}
	}

	source, err := e.gateway.DeriveAssociatedAddress(e.cfg.Mint, e.cfg.RewardWallet)
	if err != nil {
		return ClaimResult{}, e.payoutFailure(wallet, minor, err)
	}
	dest, err := e.gateway.DeriveAssociatedAddress(e.cfg.Mint, wallet)
	if err != nil {
		return ClaimResult{}, e.payoutFailure(wallet, minor, err)
	}
	signature, err := e.gateway.SubmitTransfer(ctx, source, dest, minor)
	if err != nil {
		return ClaimResult{}, e.payoutFailure(wallet, minor, err)
	}

	e.stats.ClaimGranted()
	e.log.Info("reward claimed",
		slog.String("wallet", wallet.String()),
		slog.Uint64("minor_units", minor),
		slog.String("signature", signature))
	return ClaimResult{Amount: daily, MinorUnits: minor, Signature: signature}, nil
}

func (e *Engine) payoutFailure(wallet domain.Wallet, minor uint64, cause error) error {
	e.stats.PayoutFailed()
	e.log.Error("payout failed, claim instant kept",
		slog.String("wallet", wallet.String()),
		slog.Uint64("minor_units", minor),
		slog.Any("error", cause))
	return fmt.Errorf("%w: %v", errors.ErrPayoutFailed, cause)
}

// minorUnits floors the decimal reward into the token's smallest unit.
func (e *Engine) minorUnits(amount float64) uint64 {
	if amount <= 0 {
		return 0
	}
	return uint64(math.Floor(amount * math.Pow10(int(e.cfg.Decimals))))
}
