package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tokenlounge/observability"
	"tokenlounge/repositories"
)

func startSearchServer(t *testing.T) (*httptest.Server, repositories.MessageRepository, *repositories.SearchIndex) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	log := slog.Default()
	messages := repositories.NewMessageRepository(db, log)
	index := repositories.NewSearchIndex(writer, log)
	handler := NewSearchHandler(index, messages, log)
	router := NewRouter(nil, nil, handler, observability.NewStats())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, messages, index
}

func storeMessage(t *testing.T, messages repositories.MessageRepository, index *repositories.SearchIndex, text string) repositories.StoredMessage {
	t.Helper()
	record := repositories.StoredMessage{
		ID:     uuid.New(),
		Author: "alice",
		Rank:   "tier-2",
		Text:   text,
		At:     time.Now().UTC().Truncate(time.Millisecond),
		Wallet: testWalletAddr(0x01),
	}
	require.NoError(t, messages.Append(record))
	require.NoError(t, index.Index(record))
	return record
}

func TestSearchHandler_FindsByTerms(t *testing.T) {
	req := require.New(t)
	srv, messages, index := startSearchServer(t)

	moon := storeMessage(t, messages, index, "to the moon")
	storeMessage(t, messages, index, "bearish today")

	resp, err := http.Get(srv.URL + "/messages/search?q=moon")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Hits []searchHit `json:"hits"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Len(body.Hits, 1)
	req.Equal(moon.ID, body.Hits[0].ID)
	req.Equal("to the moon", body.Hits[0].Text)
}

func TestSearchHandler_Validation(t *testing.T) {
	req := require.New(t)
	srv, _, _ := startSearchServer(t)

	resp, err := http.Get(srv.URL + "/messages/search")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/messages/search?q=moon&limit=0")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestDebugStatsEndpoint(t *testing.T) {
	req := require.New(t)
	srv, _, _ := startSearchServer(t)

	resp, err := http.Get(srv.URL + "/debug/stats")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var snapshot map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&snapshot))
	req.Contains(snapshot, "sessions_connected")
}
