package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tokenlounge/contract"
	"tokenlounge/domain"
	"tokenlounge/domain/event"
	"tokenlounge/hub"
)

// WSHandler upgrades /ws connections and pumps frames between the socket
// and the hub.
//
// Protocol: the hub greets with a challenge nonce; the client answers with
// an auth event carrying the nonce signature; only then are chat, delete
// and pin events accepted. The rank attached to a chat event is recomputed
// here from the live balance before the hub sees it, so a client can never
// talk itself into a higher tier. Malformed, unauthorized or over-limit
// frames are dropped without feedback.
type WSHandler struct {
	hub      *hub.Hub
	gateway  contract.ILedgerGateway
	verifier contract.IIdentityVerifier
	limiter  *PublishLimiter
	mint     domain.Wallet

	bufferSize   int
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	log          *slog.Logger
}

func NewWSHandler(
	h *hub.Hub,
	gateway contract.ILedgerGateway,
	verifier contract.IIdentityVerifier,
	limiter *PublishLimiter,
	mint domain.Wallet,
	bufferSize int,
	writeTimeout time.Duration,
	log *slog.Logger,
) *WSHandler {
	return &WSHandler{
		hub:          h,
		gateway:      gateway,
		verifier:     verifier,
		limiter:      limiter,
		mint:         mint,
		bufferSize:   bufferSize,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade failed", slog.Any("error", err))
		return
	}

	session := hub.NewSession(h.bufferSize)
	h.hub.Join(session)
	go h.writePump(conn, session)
	h.readPump(r, conn, session)
}

func (h *WSHandler) readPump(r *http.Request, conn *websocket.Conn, session *hub.Session) {
	defer conn.Close()
	defer h.hub.Leave(session)

	authenticated := false
	var wallet domain.Wallet

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		evt, err := event.Decode(raw)
		if err != nil {
			h.log.Debug("frame dropped", slog.Any("error", err))
			continue
		}

		switch e := evt.(type) {
		case *event.Auth:
			if authenticated {
				continue
			}
			parsed, err := domain.ParseWallet(e.Wallet)
			if err != nil {
				h.log.Debug("auth dropped", slog.Any("error", err))
				continue
			}
			if !h.verifier.VerifyEncoded(e.Wallet, session.Nonce, e.Signature) {
				h.log.Debug("auth dropped", slog.String("wallet", e.Wallet), slog.String("reason", "bad signature"))
				continue
			}
			balance, err := h.gateway.BalanceOf(r.Context(), parsed, h.mint)
			if err != nil {
				h.log.Warn("auth balance lookup", slog.Any("error", err))
				continue
			}
			user := e.User
			if user == "" {
				user = e.Wallet
			}
			authenticated = true
			wallet = parsed
			h.hub.Authenticate(session, parsed, user, domain.RankForBalance(balance), balance)

		case *event.Chat:
			if !authenticated {
				continue
			}
			if !h.limiter.Allow(wallet.String()) {
				h.log.Debug("publish rate limited", slog.String("wallet", wallet.String()))
				continue
			}
			balance, err := h.gateway.BalanceOf(r.Context(), wallet, h.mint)
			if err != nil {
				h.log.Warn("publish balance lookup", slog.Any("error", err))
				continue
			}
			h.hub.Publish(session, e.User, e.Rank, e.Text, domain.RankForBalance(balance))

		case *event.Delete:
			if !authenticated {
				continue
			}
			h.hub.Delete(session, *e.Index)

		case *event.Pin:
			if !authenticated {
				continue
			}
			h.hub.Pin(session, *e.Index, e.User)
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, session *hub.Session) {
	defer conn.Close()
	for raw := range session.Out() {
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
