package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"tokenlounge/repositories"
)

const defaultSearchLimit = 20

// SearchHandler answers full-text queries over the broadcast history.
type SearchHandler struct {
	index    *repositories.SearchIndex
	messages repositories.IMessageRepository
	log      *slog.Logger
}

func NewSearchHandler(index *repositories.SearchIndex, messages repositories.IMessageRepository, log *slog.Logger) *SearchHandler {
	return &SearchHandler{index: index, messages: messages, log: log}
}

type searchHit struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	Rank      string    `json:"rank"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Wallet    string    `json:"wallet"`
	Pinned    bool      `json:"pinned,omitempty"`
}

// Search answers GET /messages/search?q=terms&limit=n. Hits come back in
// relevance order.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	ids, err := h.index.Search(r.Context(), terms, limit)
	if err != nil {
		h.log.Error("message search", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "search unavailable")
		return
	}

	stored, err := h.messages.Load()
	if err != nil {
		h.log.Error("load messages", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "search unavailable")
		return
	}
	byID := lo.KeyBy(stored, func(m repositories.StoredMessage) uuid.UUID { return m.ID })

	hits := make([]searchHit, 0, len(ids))
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			continue // deleted between index lookup and load
		}
		hits = append(hits, searchHit{
			ID:        record.ID,
			User:      record.Author,
			Rank:      record.Rank,
			Text:      record.Text,
			Timestamp: record.At,
			Wallet:    record.Wallet,
			Pinned:    record.Pinned,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}
