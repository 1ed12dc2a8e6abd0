package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tokenlounge/domain"
	apperrors "tokenlounge/errors"
	"tokenlounge/mocks"
	"tokenlounge/observability"
	"tokenlounge/repositories"
	"tokenlounge/rewards"
)

func testWalletAddr(b byte) string {
	raw := make([]byte, 32)
	raw[0] = b
	return base58.Encode(raw)
}

func newRewardsHandler(t *testing.T, gateway *mocks.MockILedgerGateway) *RewardsHandler {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	engine := rewards.NewEngine(gateway, repositories.NewClaimRepository(db, log), rewards.EngineConfig{
		Mint:         domain.MustWallet(testWalletAddr(0xAA)),
		RewardWallet: domain.MustWallet(testWalletAddr(0xBB)),
		Decimals:     6,
		YearlyRate:   0.10,
		Cooldown:     24 * time.Hour,
	}, observability.NewStats(), log)
	return NewRewardsHandler(engine, log)
}

func newRewardsServer(t *testing.T, gateway *mocks.MockILedgerGateway) *httptest.Server {
	t.Helper()
	handler := newRewardsHandler(t, gateway)
	stats := observability.NewStats()
	router := NewRouter(nil, handler, nil, stats)
	// the nil handlers are never exercised by these tests
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRewardsHandler_Quote(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	gateway.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), gomock.Any()).Return(120_000.0, nil)
	srv := newRewardsServer(t, gateway)

	resp, err := http.Get(srv.URL + "/rewards/" + testWalletAddr(0x01))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var body quoteResponse
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal(120_000.0, body.Balance)
	req.InDelta(32.876712, body.DailyReward, 0.000001)
	req.True(body.Claimable)
	req.Empty(body.LastClaim)
}

func TestRewardsHandler_QuoteInvalidWallet(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	srv := newRewardsServer(t, mocks.NewMockILedgerGateway(ctrl))

	resp, err := http.Get(srv.URL + "/rewards/not-a-wallet")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestRewardsHandler_ClaimThenCooldown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	gateway.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), gomock.Any()).Return(120_000.0, nil).Times(2)
	gateway.EXPECT().DeriveAssociatedAddress(gomock.Any(), gomock.Any()).Return(domain.Wallet{}, nil).Times(2)
	gateway.EXPECT().SubmitTransfer(gomock.Any(), gomock.Any(), gomock.Any(), uint64(32_876_712)).
		Return("fake-signature", nil)
	srv := newRewardsServer(t, gateway)

	body := `{"walletAddress":"` + testWalletAddr(0x01) + `"}`
	resp, err := http.Post(srv.URL+"/claim-reward", "application/json", strings.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var claimed claimResponse
	req.NoError(json.NewDecoder(resp.Body).Decode(&claimed))
	req.Equal("fake-signature", claimed.Signature)
	req.Equal(uint64(32_876_712), claimed.MinorUnits)

	// next claim inside the window is refused with the retry instant
	resp, err = http.Post(srv.URL+"/claim-reward", "application/json", strings.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	var denial map[string]string
	req.NoError(json.NewDecoder(resp.Body).Decode(&denial))
	req.NotEmpty(denial["nextEligibleAt"])
}

func TestRewardsHandler_ClaimValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "missing wallet", body: `{}`},
		{name: "invalid wallet", body: `{"walletAddress":"zz!!"}`},
	}
	ctrl := gomock.NewController(t)
	srv := newRewardsServer(t, mocks.NewMockILedgerGateway(ctrl))

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := require.New(t)
			resp, err := http.Post(srv.URL+"/claim-reward", "application/json", strings.NewReader(test.body))
			req.NoError(err)
			defer resp.Body.Close()
			req.Equal(http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRewardsHandler_ClaimGatewayDown(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockILedgerGateway(ctrl)
	gateway.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0.0, apperrors.ErrGatewayUnavailable)
	srv := newRewardsServer(t, gateway)

	body := `{"walletAddress":"` + testWalletAddr(0x01) + `"}`
	resp, err := http.Post(srv.URL+"/claim-reward", "application/json", strings.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusInternalServerError, resp.StatusCode)
}
