package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"minitwit/internal/model"
)

const messageColumns = "message_id, posted_by, message_text, time_posted_epoch"

// MessageStore reads and writes the message table.
type MessageStore struct {
	db  *sqlx.DB
	log logrus.FieldLogger
}

// NewMessageStore creates a MessageStore using the provided database handle.
func NewMessageStore(db *sqlx.DB, log logrus.FieldLogger) *MessageStore {
	return &MessageStore{db: db, log: log.WithField("store", "message")}
}

// Insert stores a new message and returns it with its assigned id.
// An unknown author yields ErrInvalidReference.
func (s *MessageStore) Insert(ctx context.Context, msg model.Message) (*model.Message, error) {
	var created model.Message
	err := s.db.GetContext(ctx, &created, s.db.Rebind(`
		INSERT INTO message (posted_by, message_text, time_posted_epoch)
		VALUES (?, ?, ?)
		RETURNING `+messageColumns), msg.PostedBy, msg.Text, msg.PostedAt)
	if err != nil {
		return nil, classify(s.log, "insert message", err)
	}
	return &created, nil
}

func (s *MessageStore) FindByID(ctx context.Context, id int) (*model.Message, error) {
	var msg model.Message
	err := s.db.GetContext(ctx, &msg,
		s.db.Rebind("SELECT "+messageColumns+" FROM message WHERE message_id = ?"), id)
	if err != nil {
		return nil, classify(s.log, "find message by id", err)
	}
	return &msg, nil
}

func (s *MessageStore) FindAll(ctx context.Context) ([]model.Message, error) {
	return s.queryMessages(ctx, "find all messages",
		"SELECT "+messageColumns+" FROM message ORDER BY message_id")
}

func (s *MessageStore) FindByAuthor(ctx context.Context, accountID int) ([]model.Message, error) {
	return s.queryMessages(ctx, "find messages by author",
		"SELECT "+messageColumns+" FROM message WHERE posted_by = ? ORDER BY message_id", accountID)
}

// UpdateText replaces the text of a message and returns the updated row.
func (s *MessageStore) UpdateText(ctx context.Context, id int, text string) (*model.Message, error) {
	var msg model.Message
	err := s.db.GetContext(ctx, &msg, s.db.Rebind(`
		UPDATE message SET message_text = ?
		WHERE message_id = ?
		RETURNING `+messageColumns), text, id)
	if err != nil {
		return nil, classify(s.log, "update message", err)
	}
	return &msg, nil
}

// DeleteByID removes a message. Deleting a missing id is not an error.
func (s *MessageStore) DeleteByID(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM message WHERE message_id = ?"), id)
	return classify(s.log, "delete message", err)
}

// queryMessages always returns a non-nil slice so empty results encode as [].
func (s *MessageStore) queryMessages(ctx context.Context, op, query string, args ...interface{}) ([]model.Message, error) {
	messages := []model.Message{}
	if err := s.db.SelectContext(ctx, &messages, s.db.Rebind(query), args...); err != nil {
		return nil, classify(s.log, op, err)
	}
	return messages, nil
}
