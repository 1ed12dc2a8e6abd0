//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"tokenlounge/domain"
)

const (
	messageKeyPrefix = "msg:"
	orderKey         = "msgorder"
)

type IMessageRepository interface {
	Load() ([]StoredMessage, error)
	Append(message StoredMessage) error
	Delete(id uuid.UUID) error
	PinToFront(id uuid.UUID) error
}

// MessageRepository persists the broadcast history in BadgerDB.
//
// Each message lives under "msg:{uuid}" and a single "msgorder" record holds
// the display order as a JSON array of ids. Every mutation updates both
// inside one transaction, so a crash can never leave an id in the order
// without its record or vice versa. The hub is the only writer.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoredMessage is the disk shape of a history entry.
type StoredMessage struct {
	ID     uuid.UUID `json:"id"`
	Author string    `json:"author"`
	Rank   string    `json:"rank"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
	Wallet string    `json:"wallet"`
	Pinned bool      `json:"pinned"`
}

func FromChatMessage(m domain.ChatMessage) StoredMessage {
	return StoredMessage{
		ID:     m.ID,
		Author: m.Author,
		Rank:   string(m.Rank),
		Text:   m.Text,
		At:     m.At.UTC(),
		Wallet: m.Wallet.String(),
		Pinned: m.Pinned,
	}
}

func (s StoredMessage) ToChatMessage() (domain.ChatMessage, error) {
	wallet, err := domain.ParseWallet(s.Wallet)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("message %s: %w", s.ID, err)
	}
	return domain.ChatMessage{
		ID:     s.ID,
		Author: s.Author,
		Rank:   domain.Rank(s.Rank),
		Text:   s.Text,
		At:     s.At,
		Wallet: wallet,
		Pinned: s.Pinned,
	}, nil
}

// Load reads the full history in display order. Ids present in the order
// record without a message entry are skipped with a warning rather than
// failing the whole load.
func (m MessageRepository) Load() ([]StoredMessage, error) {
	var messages []StoredMessage
	err := m.db.View(func(txn *badger.Txn) error {
		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		for _, id := range order {
			item, err := txn.Get(messageKey(id))
			if err == badger.ErrKeyNotFound {
				m.log.Warn("Ordered message missing from store", "id", id)
				continue
			}
			if err != nil {
				return err
			}
			var stored StoredMessage
			if err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &stored)
			}); err != nil {
				return err
			}
			messages = append(messages, stored)
		}
		return nil
	})
	return messages, err
}

// Append stores the message and adds its id to the end of the order.
func (m MessageRepository) Append(message StoredMessage) error {
	return m.db.Update(func(txn *badger.Txn) error {
		raw, err := json.Marshal(message)
		if err != nil {
			return err
		}
		if err := txn.Set(messageKey(message.ID), raw); err != nil {
			return err
		}
		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		return writeOrder(txn, append(order, message.ID))
	})
}

// Delete removes the message and its order entry. Deleting an unknown id is
// a no-op, consistent with the silent channel semantics upstream.
func (m MessageRepository) Delete(id uuid.UUID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(messageKey(id)); err != nil {
			return err
		}
		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		kept := order[:0]
		for _, entry := range order {
			if entry != id {
				kept = append(kept, entry)
			}
		}
		return writeOrder(txn, kept)
	})
}

// PinToFront flags the message as pinned and moves its id to the head of
// the order. Pinning the current head twice is idempotent.
func (m MessageRepository) PinToFront(id uuid.UUID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(id))
		if err != nil {
			return err
		}
		var stored StoredMessage
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		}); err != nil {
			return err
		}
		stored.Pinned = true
		raw, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		if err := txn.Set(messageKey(id), raw); err != nil {
			return err
		}

		order, err := readOrder(txn)
		if err != nil {
			return err
		}
		reordered := make([]uuid.UUID, 0, len(order))
		reordered = append(reordered, id)
		for _, entry := range order {
			if entry != id {
				reordered = append(reordered, entry)
			}
		}
		return writeOrder(txn, reordered)
	})
}

func messageKey(id uuid.UUID) []byte {
	return []byte(messageKeyPrefix + id.String())
}

func readOrder(txn *badger.Txn) ([]uuid.UUID, error) {
	item, err := txn.Get([]byte(orderKey))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var order []uuid.UUID
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, &order)
	})
	return order, err
}

func writeOrder(txn *badger.Txn, order []uuid.UUID) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return txn.Set([]byte(orderKey), raw)
}
