// Package event defines the JSON wire protocol of the duplex session
// channel. Inbound payloads form a tagged union discriminated by the
// "type" field and validated before dispatch; unknown variants are an
// explicit, handled case, never a fallthrough.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"tokenlounge/domain"
)

const (
	TypeChallenge     = "challenge"
	TypeAuth          = "auth"
	TypeAuthOK        = "auth_ok"
	TypeChat          = "chat"
	TypeDelete        = "delete"
	TypeDeleteMessage = "delete_message" // legacy alias of delete
	TypePinMessage    = "pin_message"
)

var validate = validator.New()

// ErrUnknownType marks payloads whose "type" is not part of the protocol.
// The hub logs and drops those without closing the connection.
var ErrUnknownType = fmt.Errorf("unknown event type")

type envelope struct {
	Type string `json:"type"`
}

// Auth is the one inbound event accepted from an unauthenticated session:
// the wallet proves control of its key by signing the server nonce.
type Auth struct {
	Wallet    string `json:"wallet" validate:"required,max=64"`
	User      string `json:"user" validate:"max=64"`
	Signature string `json:"signature" validate:"required,base64"`
}

// Chat carries a message publication intent with the rank the client
// believes it holds. The hub recomputes the rank and silently drops the
// event on mismatch.
type Chat struct {
	User string `json:"user" validate:"required,max=64"`
	Rank string `json:"rank" validate:"required,max=16"`
	Text string `json:"text" validate:"required,max=2000"`
}

// Delete requests removal of the history entry currently sitting at Index.
type Delete struct {
	Index  *int   `json:"index" validate:"required,gte=0"`
	Wallet string `json:"wallet" validate:"max=64"`
}

// Pin requests promotion of the history entry at Index to the front.
type Pin struct {
	Index *int   `json:"index" validate:"required,gte=0"`
	User  string `json:"user" validate:"max=64"`
}

// Decode parses a raw frame into its typed inbound event and validates it.
// Malformed or unknown payloads yield an error; callers log and drop.
func Decode(raw []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var evt any
	switch env.Type {
	case TypeAuth:
		evt = &Auth{}
	case TypeChat:
		evt = &Chat{}
	case TypeDelete, TypeDeleteMessage:
		evt = &Delete{}
	case TypePinMessage:
		evt = &Pin{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(raw, evt); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", env.Type, err)
	}
	if err := validate.Struct(evt); err != nil {
		return nil, fmt.Errorf("validate %s event: %w", env.Type, err)
	}
	return evt, nil
}

// Outbound events. Marshalled as-is, the Type field is always set by the
// constructor helpers below so a frame can never leave without its tag.

type Challenge struct {
	Type  string `json:"type"`
	Nonce string `json:"nonce"`
}

func NewChallenge(nonce string) Challenge {
	return Challenge{Type: TypeChallenge, Nonce: nonce}
}

type AuthOK struct {
	Type    string  `json:"type"`
	Rank    string  `json:"rank"`
	Balance float64 `json:"balance"`
}

func NewAuthOK(rank string, balance float64) AuthOK {
	return AuthOK{Type: TypeAuthOK, Rank: rank, Balance: balance}
}

type ChatBroadcast struct {
	Type           string    `json:"type"`
	User           string    `json:"user"`
	Rank           string    `json:"rank"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	OriginalWallet string    `json:"originalWallet"`
	Pinned         bool      `json:"pinned,omitempty"`
}

func NewChatBroadcast(m domain.ChatMessage) ChatBroadcast {
	return ChatBroadcast{
		Type:           TypeChat,
		User:           m.Author,
		Rank:           string(m.Rank),
		Text:           m.Text,
		Timestamp:      m.At,
		OriginalWallet: m.Wallet.String(),
		Pinned:         m.Pinned,
	}
}

type DeleteBroadcast struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	Wallet string `json:"wallet"`
}

func NewDeleteBroadcast(index int, wallet string) DeleteBroadcast {
	return DeleteBroadcast{Type: TypeDelete, Index: index, Wallet: wallet}
}

type PinBroadcast struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	User  string `json:"user"`
}

func NewPinBroadcast(index int, user string) PinBroadcast {
	return PinBroadcast{Type: TypePinMessage, Index: index, User: user}
}
