package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"minitwit/internal/model"
	"minitwit/internal/store"
)

// MaxMessageLength is the longest message text accepted, in characters.
const MaxMessageLength = 255

// MessageStore is the persistence the message rules need.
type MessageStore interface {
	Insert(ctx context.Context, msg model.Message) (*model.Message, error)
	FindByID(ctx context.Context, id int) (*model.Message, error)
	FindAll(ctx context.Context) ([]model.Message, error)
	FindByAuthor(ctx context.Context, accountID int) ([]model.Message, error)
	UpdateText(ctx context.Context, id int, text string) (*model.Message, error)
	DeleteByID(ctx context.Context, id int) error
}

// MessageService creates, reads, updates and deletes messages.
type MessageService struct {
	messages MessageStore
	accounts AccountStore
	log      logrus.FieldLogger
}

func NewMessageService(messages MessageStore, accounts AccountStore, log logrus.FieldLogger) *MessageService {
	return &MessageService{
		messages: messages,
		accounts: accounts,
		log:      log.WithField("service", "message"),
	}
}

// Create validates the candidate and stores it. The author must exist.
func (s *MessageService) Create(ctx context.Context, candidate model.Message) (*model.Message, error) {
	if err := validateText(candidate.Text); err != nil {
		return nil, err
	}

	if _, err := s.accounts.FindByID(ctx, candidate.PostedBy); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid(fmt.Sprintf("account %d does not exist", candidate.PostedBy))
		}
		return nil, backend(err)
	}

	msg, err := s.messages.Insert(ctx, candidate)
	if err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return nil, invalid(fmt.Sprintf("account %d does not exist", candidate.PostedBy))
		}
		return nil, backend(err)
	}
	return msg, nil
}

func (s *MessageService) GetAll(ctx context.Context) ([]model.Message, error) {
	messages, err := s.messages.FindAll(ctx)
	if err != nil {
		return nil, backend(err)
	}
	return messages, nil
}

func (s *MessageService) GetByID(ctx context.Context, id int) (*model.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return msg, nil
}

// DeleteByID removes the message and returns it as it was before deletion.
// A missing message yields ErrNotFound and nothing is deleted.
func (s *MessageService) DeleteByID(ctx context.Context, id int) (*model.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	if err := s.messages.DeleteByID(ctx, id); err != nil {
		return nil, backend(err)
	}
	s.log.WithField("message_id", id).Info("message deleted")
	return msg, nil
}

// UpdateByID replaces the text of an existing message and returns the
// updated row.
func (s *MessageService) UpdateByID(ctx context.Context, id int, text string) (*model.Message, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	if _, err := s.messages.FindByID(ctx, id); err != nil {
		return nil, lookupError(err)
	}

	msg, err := s.messages.UpdateText(ctx, id, text)
	if err != nil {
		return nil, lookupError(err)
	}
	return msg, nil
}

// GetAllByAuthor does not check that the account exists; an unknown
// account simply has no messages.
func (s *MessageService) GetAllByAuthor(ctx context.Context, accountID int) ([]model.Message, error) {
	messages, err := s.messages.FindByAuthor(ctx, accountID)
	if err != nil {
		return nil, backend(err)
	}
	return messages, nil
}

func validateText(text string) error {
	if isBlank(text) {
		return invalid("message text is blank")
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return invalid("message text is longer than 255 characters")
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return backend(err)
}
