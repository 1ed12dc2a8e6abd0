package httpapi

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"tokenlounge/domain"
	"tokenlounge/errors"
	"tokenlounge/rewards"
)

var validate = validator.New()

// RewardsHandler exposes the reward quote and claim endpoints.
type RewardsHandler struct {
	engine *rewards.Engine
	log    *slog.Logger
}

func NewRewardsHandler(engine *rewards.Engine, log *slog.Logger) *RewardsHandler {
	return &RewardsHandler{engine: engine, log: log}
}

type quoteResponse struct {
	WalletAddress string  `json:"walletAddress"`
	Balance       float64 `json:"balance"`
	DailyReward   float64 `json:"dailyReward"`
	Claimable     bool    `json:"canClaim"`
	LastClaim     string  `json:"lastClaim,omitempty"`
}

// Quote answers GET /rewards/{wallet}. Nothing is written.
func (h *RewardsHandler) Quote(w http.ResponseWriter, r *http.Request) {
	wallet, err := domain.ParseWallet(mux.Vars(r)["wallet"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	quote, err := h.engine.Quote(r.Context(), wallet)
	if err != nil {
		h.log.Error("reward quote", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "reward quote unavailable")
		return
	}

	resp := quoteResponse{
		WalletAddress: wallet.String(),
		Balance:       quote.Balance,
		DailyReward:   quote.DailyReward,
		Claimable:     quote.Claimable,
	}
	if !quote.LastClaim.IsZero() {
		resp.LastClaim = quote.LastClaim.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

type claimRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,max=64"`
}

type claimResponse struct {
	Success       bool    `json:"success"`
	WalletAddress string  `json:"walletAddress"`
	Amount        float64 `json:"amount"`
	MinorUnits    uint64  `json:"minorUnits"`
	Signature     string  `json:"signature"`
}

// Claim answers POST /claim-reward.
func (h *RewardsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "walletAddress is required")
		return
	}
	wallet, err := domain.ParseWallet(req.WalletAddress)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	result, err := h.engine.Claim(r.Context(), wallet)
	if err != nil {
		h.writeClaimError(w, wallet, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{
		Success:       true,
		WalletAddress: wallet.String(),
		Amount:        result.Amount,
		MinorUnits:    result.MinorUnits,
		Signature:     result.Signature,
	})
}

func (h *RewardsHandler) writeClaimError(w http.ResponseWriter, wallet domain.Wallet, err error) {
	var denied *errors.AlreadyClaimedError
	switch {
	case goerrors.As(err, &denied):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":          denied.Error(),
			"nextEligibleAt": denied.NextEligibleAt.UTC().Format(time.RFC3339),
		})
	case goerrors.Is(err, errors.ErrNothingToClaim):
		writeError(w, http.StatusBadRequest, "nothing to claim")
	default:
		h.log.Error("reward claim", slog.String("wallet", wallet.String()), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "claim failed")
	}
}
