package repositories

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// SearchIndex maintains a Bluge full-text index over the broadcast history.
// Indexing is best effort from the hub's point of view: a failed index write
// is logged but never blocks a publish.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

// Index adds or replaces the document for a message.
func (s *SearchIndex) Index(message StoredMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("text", message.Text).StoreValue()).
		AddField(bluge.NewTextField("author", message.Author)).
		AddField(bluge.NewKeywordField("wallet", message.Wallet)).
		AddField(bluge.NewDateTimeField("at", message.At))
	return s.writer.Update(doc.ID(), doc)
}

// Remove drops a deleted message from the index.
func (s *SearchIndex) Remove(id uuid.UUID) error {
	return s.writer.Delete(bluge.Identifier(id.String()))
}

// Search returns the ids of the best matching messages for a free-text
// query over the message text.
func (s *SearchIndex) Search(ctx context.Context, terms string, limit int) ([]uuid.UUID, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewMatchQuery(terms).SetField("text")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field != "_id" {
				return true
			}
			id, parseErr := uuid.Parse(string(value))
			if parseErr != nil {
				s.log.Warn("Non-uuid document id in search index", "id", string(value))
				return true
			}
			ids = append(ids, id)
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
