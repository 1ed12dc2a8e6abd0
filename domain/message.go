package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is an entry of the durable broadcast history.
//
// The wire protocol addresses messages by their position in the history at
// the time of lookup; deletion reindexes subsequent entries. ID is the
// stable identifier used by the stores and the search index, it never
// appears in the delete/pin wire contract.
type ChatMessage struct {
	ID     uuid.UUID
	Author string // display name chosen by the sender
	Rank   Rank
	Text   string
	At     time.Time
	Wallet Wallet // originating wallet, authorization key for delete
	Pinned bool
}
