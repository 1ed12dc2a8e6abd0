// Package observability aggregates runtime counters of the lounge for the
// debug endpoint and periodic logging. Counters are atomic, snapshots are
// cheap and safe to take from any goroutine.
package observability

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

type Stats struct {
	startedAt time.Time

	sessionsConnected     atomic.Int64
	sessionsAuthenticated atomic.Int64
	messagesPublished     atomic.Uint64
	rankMismatchDrops     atomic.Uint64
	censoredMessages      atomic.Uint64
	messagesDeleted       atomic.Uint64
	messagesPinned        atomic.Uint64
	gatewayFailovers      atomic.Uint64
	claimsGranted         atomic.Uint64
	claimsDenied          atomic.Uint64
	payoutFailures        atomic.Uint64
}

// Snapshot is the JSON shape served by the debug endpoint.
type Snapshot struct {
	UptimeSeconds         int64   `json:"uptime_seconds"`
	SessionsConnected     int64   `json:"sessions_connected"`
	SessionsAuthenticated int64   `json:"sessions_authenticated"`
	MessagesPublished     uint64  `json:"messages_published"`
	RankMismatchDrops     uint64  `json:"rank_mismatch_drops"`
	CensoredMessages      uint64  `json:"censored_messages"`
	MessagesDeleted       uint64  `json:"messages_deleted"`
	MessagesPinned        uint64  `json:"messages_pinned"`
	GatewayFailovers      uint64  `json:"gateway_failovers"`
	ClaimsGranted         uint64  `json:"claims_granted"`
	ClaimsDenied          uint64  `json:"claims_denied"`
	PayoutFailures        uint64  `json:"payout_failures"`
	RSSBytes              uint64  `json:"rss_bytes"`
	CPUPercent            float64 `json:"cpu_percent"`
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now().UTC()}
}

func (s *Stats) SessionOpened()       { s.sessionsConnected.Add(1) }
func (s *Stats) SessionClosed(authed bool) {
	s.sessionsConnected.Add(-1)
	if authed {
		s.sessionsAuthenticated.Add(-1)
	}
}
func (s *Stats) SessionAuthenticated() { s.sessionsAuthenticated.Add(1) }
func (s *Stats) MessagePublished()     { s.messagesPublished.Add(1) }
func (s *Stats) RankMismatchDropped()  { s.rankMismatchDrops.Add(1) }
func (s *Stats) MessageCensored()      { s.censoredMessages.Add(1) }
func (s *Stats) MessageDeleted()       { s.messagesDeleted.Add(1) }
func (s *Stats) MessagePinned()        { s.messagesPinned.Add(1) }
func (s *Stats) GatewayFailover()      { s.gatewayFailovers.Add(1) }
func (s *Stats) ClaimGranted()         { s.claimsGranted.Add(1) }
func (s *Stats) ClaimDenied()          { s.claimsDenied.Add(1) }
func (s *Stats) PayoutFailed()         { s.payoutFailures.Add(1) }

// GetLatest collects the counters plus self process metrics.
// Process metrics are best effort: a collection failure leaves them at zero.
func (s *Stats) GetLatest() Snapshot {
	snap := Snapshot{
		UptimeSeconds:         int64(time.Since(s.startedAt).Seconds()),
		SessionsConnected:     s.sessionsConnected.Load(),
		SessionsAuthenticated: s.sessionsAuthenticated.Load(),
		MessagesPublished:     s.messagesPublished.Load(),
		RankMismatchDrops:     s.rankMismatchDrops.Load(),
		CensoredMessages:      s.censoredMessages.Load(),
		MessagesDeleted:       s.messagesDeleted.Load(),
		MessagesPinned:        s.messagesPinned.Load(),
		GatewayFailovers:      s.gatewayFailovers.Load(),
		ClaimsGranted:         s.claimsGranted.Load(),
		ClaimsDenied:          s.claimsDenied.Load(),
		PayoutFailures:        s.payoutFailures.Load(),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return snap
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		snap.RSSBytes = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	return snap
}
