package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"tokenlounge/domain"
	"tokenlounge/domain/event"
	"tokenlounge/moderation"
	"tokenlounge/observability"
	"tokenlounge/repositories"
)

type joinCommand struct{ session *Session }

type leaveCommand struct{ session *Session }

type authCommand struct {
	session *Session
	wallet  domain.Wallet
	user    string
	rank    domain.Rank
	balance float64
}

type publishCommand struct {
	session     *Session
	user        string
	claimedRank string
	text        string
	actualRank  domain.Rank
	at          time.Time
}

type deleteCommand struct {
	session *Session
	index   int
}

type pinCommand struct {
	session *Session
	index   int
	user    string
}

// Hub is the single writer of the broadcast room.
//
// It runs as one goroutine consuming a command channel, so session
// membership, the in-memory history and the message store only ever mutate
// from one place. Transports talk to it through the enqueue methods and
// receive frames on each session's out channel. Ties between concurrent
// publishers resolve to arrival order on the command channel.
type Hub struct {
	commands chan any

	// quit belongs to the current Run invocation; it is swapped on every
	// (re)start so a supervised restart gets a fresh channel. Guarded by
	// quitMu because enqueue reads it from transport goroutines.
	quitMu sync.RWMutex
	quit   chan struct{}

	sessions map[uuid.UUID]*Session
	history  []domain.ChatMessage

	messages  repositories.IMessageRepository
	search    *repositories.SearchIndex
	censor    *moderation.Censor
	authority moderation.Authority
	stats     *observability.Stats
	log       *slog.Logger
}

func NewHub(
	messages repositories.IMessageRepository,
	search *repositories.SearchIndex,
	censor *moderation.Censor,
	authority moderation.Authority,
	stats *observability.Stats,
	log *slog.Logger,
) *Hub {
	return &Hub{
		commands:  make(chan any, 256),
		sessions:  make(map[uuid.UUID]*Session),
		messages:  messages,
		search:    search,
		censor:    censor,
		authority: authority,
		stats:     stats,
		log:       log,
	}
}

// Run loads the durable history and consumes commands until the context
// ends. It satisfies the worker contract so the supervisor restarts it on
// panic.
func (h *Hub) Run(ctx context.Context) error {
	h.quitMu.Lock()
	quit := make(chan struct{})
	h.quit = quit
	h.quitMu.Unlock()
	defer close(quit)

	stored, err := h.messages.Load()
	if err != nil {
		return err
	}
	h.history = h.history[:0]
	for _, record := range stored {
		msg, err := record.ToChatMessage()
		if err != nil {
			h.log.Warn("skipping corrupt history record", slog.Any("error", err))
			continue
		}
		h.history = append(h.history, msg)
	}
	h.log.Info("hub started", slog.Int("history", len(h.history)))

	for {
		select {
		case <-ctx.Done():
			for _, session := range h.sessions {
				h.evict(session)
			}
			h.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd := <-h.commands:
			h.apply(cmd)
		}
	}
}

// Join registers a fresh session; the hub answers with the challenge frame.
func (h *Hub) Join(s *Session) { h.enqueue(joinCommand{session: s}) }

// Leave removes the session and closes its out channel.
func (h *Hub) Leave(s *Session) { h.enqueue(leaveCommand{session: s}) }

// Authenticate promotes a session whose signature the transport already
// verified. The hub replays the full history to it.
func (h *Hub) Authenticate(s *Session, wallet domain.Wallet, user string, rank domain.Rank, balance float64) {
	h.enqueue(authCommand{session: s, wallet: wallet, user: user, rank: rank, balance: balance})
}

// Publish submits a chat message. actualRank is the rank the transport
// recomputed from the live balance; when the claimed rank disagrees the
// message is dropped without feedback.
func (h *Hub) Publish(s *Session, user, claimedRank, text string, actualRank domain.Rank) {
	h.enqueue(publishCommand{
		session:     s,
		user:        user,
		claimedRank: claimedRank,
		text:        text,
		actualRank:  actualRank,
		at:          time.Now().UTC(),
	})
}

// Delete removes the history entry currently at index.
func (h *Hub) Delete(s *Session, index int) { h.enqueue(deleteCommand{session: s, index: index}) }

// Pin promotes the history entry at index to the front.
func (h *Hub) Pin(s *Session, index int, user string) {
	h.enqueue(pinCommand{session: s, index: index, user: user})
}

/// enqueue never blocks past the current run: before the first Run the quit
// channel is nil (that select arm never fires, the buffered send wins) and
// between runs it is closed, so commands issued while the hub is down are
// dropped instead of wedging the transport.
func (h *Hub) enqueue(cmd any) {
	h.quitMu.RLock()
	quit := h.quit
	h.quitMu.RUnlock()
	select {
	case h.commands <- cmd:
	case <-quit:
	}
}

func (h *Hub) apply(cmd any) {
	switch c := cmd.(type) {
	case joinCommand:
		h.applyJoin(c)
	case leaveCommand:
		h.applyLeave(c)
	case authCommand:
		h.applyAuth(c)
	case publishCommand:
		h.applyPublish(c)
	case deleteCommand:
		h.applyDelete(c)
	case pinCommand:
		h.applyPin(c)
	default:
		h.log.Warn("unknown hub command", slog.Any("command", cmd))
	}
}

func (h *Hub) applyJoin(c joinCommand) {
	h.sessions[c.session.ID] = c.session
	h.stats.SessionOpened()
	h.send(c.session, event.NewChallenge(c.session.Nonce))
}

func (h *Hub) applyLeave(c leaveCommand) {
	if _, ok := h.sessions[c.session.ID]; !ok {
		return
	}
	h.evict(c.session)
}

func (h *Hub) applyAuth(c authCommand) {
	s := c.session
	if _, ok := h.sessions[s.ID]; !ok || s.state != stateConnected {
		return
	}
	s.state = stateAuthenticated
	s.wallet = c.wallet
	s.user = c.user
	s.rank = c.rank
	s.balance = c.balance
	h.stats.SessionAuthenticated()
	h.log.Info("session authenticated",
		slog.String("wallet", c.wallet.String()),
		slog.String("rank", string(c.rank)))

	h.send(s, event.NewAuthOK(string(c.rank), c.balance))
	for _, msg := range h.history {
		h.send(s, event.NewChatBroadcast(msg))
	}
}

func (h *Hub) applyPublish(c publishCommand) {
	s := c.session
	if s.state != stateAuthenticated {
		return
	}
	if c.claimedRank != string(c.actualRank) {
		h.stats.RankMismatchDropped()
		h.log.Debug("rank mismatch, message dropped",
			slog.String("wallet", s.wallet.String()),
			slog.String("claimed", c.claimedRank),
			slog.String("actual", string(c.actualRank)))
		return
	}

	text, masked := h.censor.Apply(c.text)
	if masked > 0 {
		h.stats.MessageCensored()
	}
	info := whatlanggo.Detect(c.text)
	h.log.Debug("message published",
		slog.String("wallet", s.wallet.String()),
		slog.String("lang", info.Lang.Iso6391()),
		slog.Int("masked", masked))

	msg := domain.ChatMessage{
		ID:     uuid.New(),
		Author: c.user,
		Rank:   c.actualRank,
		Text:   text,
		At:     c.at,
		Wallet: s.wallet,
	}
	stored := repositories.FromChatMessage(msg)
	if err := h.messages.Append(stored); err != nil {
		h.log.Error("append message", slog.Any("error", err))
		return
	}
	if err := h.search.Index(stored); err != nil {
		h.log.Warn("index message", slog.Any("error", err))
	}
	h.history = append(h.history, msg)
	h.stats.MessagePublished()
	h.broadcast(event.NewChatBroadcast(msg))
}

func (h *Hub) applyDelete(c deleteCommand) {
	s := c.session
	if s.state != stateAuthenticated {
		return
	}
	if c.index < 0 || c.index >= len(h.history) {
		h.log.Debug("delete index out of range", slog.Int("index", c.index))
		return
	}
	msg := h.history[c.index]
	if !h.authority.CanDelete(s.wallet, msg) {
		h.log.Debug("delete denied",
			slog.String("wallet", s.wallet.String()),
			slog.Int("index", c.index))
		return
	}

	// durable store first: a failed write must not diverge from memory
	if err := h.messages.Delete(msg.ID); err != nil {
		h.log.Error("delete message", slog.Any("error", err))
		return
	}
	h.history = append(h.history[:c.index], h.history[c.index+1:]...)
	if err := h.search.Remove(msg.ID); err != nil {
		h.log.Warn("unindex message", slog.Any("error", err))
	}
	h.stats.MessageDeleted()
	h.broadcast(event.NewDeleteBroadcast(c.index, s.wallet.String()))
}

func (h *Hub) applyPin(c pinCommand) {
	s := c.session
	if s.state != stateAuthenticated {
		return
	}
	if !h.authority.CanPin(s.wallet) {
		h.log.Debug("pin denied", slog.String("wallet", s.wallet.String()))
		return
	}
	if c.index < 0 || c.index >= len(h.history) {
		h.log.Debug("pin index out of range", slog.Int("index", c.index))
		return
	}

	if c.index == 0 && h.history[0].Pinned {
		return // already at the front, nothing changes
	}

	msg := h.history[c.index]
	if err := h.messages.PinToFront(msg.ID); err != nil {
		h.log.Error("pin message", slog.Any("error", err))
		return
	}
	msg.Pinned = true
	h.history = append(h.history[:c.index], h.history[c.index+1:]...)
	h.history = append([]domain.ChatMessage{msg}, h.history...)
	h.stats.MessagePinned()
	h.broadcast(event.NewPinBroadcast(0, c.user))
}

func (h *Hub) send(s *Session, frame any) {
	raw, err := json.Marshal(frame)
	if err != nil {
		h.log.Error("marshal frame", slog.Any("error", err))
		return
	}
	h.deliver(s, raw)
}

func (h *Hub) broadcast(frame any) {
	raw, err := json.Marshal(frame)
	if err != nil {
		h.log.Error("marshal frame", slog.Any("error", err))
		return
	}
	for _, s := range h.sessions {
		if s.state != stateAuthenticated {
			continue
		}
		h.deliver(s, raw)
	}
}

// deliver never blocks the hub loop. A session whose buffer is full is
// evicted; the transport notices its out channel closing.
func (h *Hub) deliver(s *Session, raw []byte) {
	select {
	case s.out <- raw:
	default:
		h.log.Warn("slow consumer evicted", slog.String("session", s.ID.String()))
		h.evict(s)
	}
}

func (h *Hub) evict(s *Session) {
	if s.state == stateClosed {
		return
	}
	h.stats.SessionClosed(s.state == stateAuthenticated)
	s.state = stateClosed
	delete(h.sessions, s.ID)
	close(s.out)
}
