// Package httpapi is the outer surface of the service: the websocket
// session endpoint, the reward endpoints and the operational extras. It
// owns no business rules, everything is delegated to the hub and the
// reward engine.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tokenlounge/observability"
)

// Server runs the HTTP listener as a supervised worker.
type Server struct {
	addr    string
	handler http.Handler
	log     *slog.Logger
}

func NewServer(addr string, handler http.Handler, log *slog.Logger) *Server {
	return &Server{addr: addr, handler: handler, log: log}
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	s.log.Info("http server listening", slog.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("http shutdown", slog.Any("error", err))
		}
		return ctx.Err()
	case err := <-errs:
		return err
	}
}

// NewRouter wires every endpoint of the service.
func NewRouter(ws *WSHandler, rewards *RewardsHandler, search *SearchHandler, stats *observability.Stats) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/ws", ws)
	router.HandleFunc("/rewards/{wallet}", rewards.Quote).Methods(http.MethodGet)
	router.HandleFunc("/claim-reward", rewards.Claim).Methods(http.MethodPost)
	router.HandleFunc("/messages/search", search.Search).Methods(http.MethodGet)
	router.HandleFunc("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stats.GetLatest())
	}).Methods(http.MethodGet)
	return router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
