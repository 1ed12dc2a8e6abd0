package observability

import (
	"context"
	"log/slog"
	"time"
)

// Reporter periodically logs a stats snapshot. It runs as a supervised
// worker next to the hub.
type Reporter struct {
	log      *slog.Logger
	stats    *Stats
	interval time.Duration
}

func NewReporter(log *slog.Logger, stats *Stats, interval time.Duration) *Reporter {
	return &Reporter{log: log, stats: stats, interval: interval}
}

func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Stopping worker")
			return nil
		case <-ticker.C:
			snap := r.stats.GetLatest()
			r.log.Info("lounge stats",
				"sessions", snap.SessionsConnected,
				"authenticated", snap.SessionsAuthenticated,
				"published", snap.MessagesPublished,
				"rank_mismatch_drops", snap.RankMismatchDrops,
				"gateway_failovers", snap.GatewayFailovers,
				"claims_granted", snap.ClaimsGranted,
				"rss_mb", snap.RSSBytes/1024/1024,
			)
		}
	}
}
