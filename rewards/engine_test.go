package rewards

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tokenlounge/domain"
	apperrors "tokenlounge/errors"
	"tokenlounge/mocks"
	"tokenlounge/observability"
)

var (
	testMint   = walletWithByte(0xAA)
	testPool   = walletWithByte(0xBB)
	testHolder = walletWithByte(0xCC)
)

func walletWithByte(b byte) domain.Wallet {
	var w domain.Wallet
	w[0] = b
	return w
}

func newTestEngine(t *testing.T, gateway *mocks.MockILedgerGateway) *Engine {
	t.Helper()
	engine := NewEngine(gateway, openTestClaims(t), EngineConfig{
		Mint:         testMint,
		RewardWallet: testPool,
		Decimals:     6,
		YearlyRate:   0.10,
		Cooldown:     24 * time.Hour,
	}, observability.NewStats(), slog.Default())
	engine.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return engine
}

func TestEngine_Quote(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(120_000.0, nil)

	quote, err := engine.Quote(context.Background(), testHolder)
	req.NoError(err)
	req.Equal(120_000.0, quote.Balance)
	req.InDelta(32.876712, quote.DailyReward, 0.000001)
	req.True(quote.Claimable)
	req.True(quote.LastClaim.IsZero())
}

func TestEngine_QuoteDuringCooldown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	last := engine.now().Add(-6 * time.Hour)
	_, err := engine.ledger.TryBeginClaim(testHolder, last)
	req.NoError(err)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(120_000.0, nil)

	quote, err := engine.Quote(context.Background(), testHolder)
	req.NoError(err)
	req.False(quote.Claimable)
	req.Equal(last, quote.LastClaim)
}

func TestEngine_QuoteZeroBalance(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(0.0, nil)

	quote, err := engine.Quote(context.Background(), testHolder)
	req.NoError(err)
	req.Zero(quote.DailyReward)
	req.False(quote.Claimable)
}

func TestEngine_Claim(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	source := walletWithByte(0x01)
	dest := walletWithByte(0x02)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(120_000.0, nil)
	gateway.EXPECT().DeriveAssociatedAddress(testMint, testPool).Return(source, nil)
	gateway.EXPECT().DeriveAssociatedAddress(testMint, testHolder).Return(dest, nil)
	gateway.EXPECT().SubmitTransfer(gomock.Any(), source, dest, uint64(32_876_712)).Return("fake-signature", nil)

	result, err := engine.Claim(context.Background(), testHolder)
	req.NoError(err)
	req.Equal(uint64(32_876_712), result.MinorUnits)
	req.InDelta(32.876712, result.Amount, 0.000001)
	req.Equal("fake-signature", result.Signature)
}

func TestEngine_ClaimNothingToClaim(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(0.0, nil)

	_, err := engine.Claim(context.Background(), testHolder)
	req.ErrorIs(err, apperrors.ErrNothingToClaim)

	// a zero-reward attempt must not start the cooldown
	_, found, lookupErr := engine.ledger.LastClaim(testHolder)
	req.NoError(lookupErr)
	req.False(found)
}

func TestEngine_ClaimDuringCooldown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	last := engine.now().Add(-1 * time.Hour)
	_, err := engine.ledger.TryBeginClaim(testHolder, last)
	req.NoError(err)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(120_000.0, nil)

	_, err = engine.Claim(context.Background(), testHolder)
	var denied *apperrors.AlreadyClaimedError
	req.ErrorAs(err, &denied)
	req.Equal(last.Add(24*time.Hour), denied.NextEligibleAt)
}

func TestEngine_ClaimInstantKeptWhenPayoutFails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	engine := newTestEngine(t, gateway)

	gateway.EXPECT().BalanceOf(gomock.Any(), testHolder, testMint).Return(120_000.0, nil).Times(2)
	gateway.EXPECT().DeriveAssociatedAddress(testMint, testPool).Return(walletWithByte(0x01), nil)
	gateway.EXPECT().DeriveAssociatedAddress(testMint, testHolder).Return(walletWithByte(0x02), nil)
	gateway.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", context.DeadlineExceeded)

	_, err := engine.Claim(context.Background(), testHolder)
	req.ErrorIs(err, apperrors.ErrPayoutFailed)

	// the failed payout already consumed the window
	_, err = engine.Claim(context.Background(), testHolder)
	var denied *apperrors.AlreadyClaimedError
	req.ErrorAs(err, &denied)
}
