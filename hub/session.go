package hub

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"

	"tokenlounge/domain"
)

type sessionState int

const (
	stateConnected sessionState = iota
	stateAuthenticated
	stateClosed
)

// Session is the hub-side handle of one duplex connection.
//
// The transport owns the read side and the write pump draining Out. All
// other fields are owned by the hub goroutine after Join and must not be
// touched by the transport; the transport learns about authentication
// through the frames the hub sends back.
type Session struct {
	ID    uuid.UUID
	Nonce string

	out chan []byte

	state   sessionState
	wallet  domain.Wallet
	user    string
	rank    domain.Rank
	balance float64
}

// NewSession creates an unauthenticated session with a fresh challenge
// nonce and an outbound buffer of the given size. A session whose buffer
// overflows is evicted by the hub rather than slowing everyone down.
func NewSession(bufferSize int) *Session {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		panic(err) // the platform CSPRNG never fails on supported targets
	}
	return &Session{
		ID:    uuid.New(),
		Nonce: base64.StdEncoding.EncodeToString(nonce),
		out:   make(chan []byte, bufferSize),
	}
}

// Out is the channel the transport's write pump drains. It is closed by
// the hub when the session leaves or is evicted.
func (s *Session) Out() <-chan []byte {
	return s.out
}
