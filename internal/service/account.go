// Package service holds the validation rules for accounts and messages.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"minitwit/internal/model"
	"minitwit/internal/password"
	"minitwit/internal/store"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 4

// AccountStore is the persistence the account rules need.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	FindByID(ctx context.Context, id int) (*model.Account, error)
	Insert(ctx context.Context, acct model.Account) (*model.Account, error)
}

// AccountService registers accounts and verifies logins.
type AccountService struct {
	accounts AccountStore
	hasher   password.Hasher
	log      logrus.FieldLogger
}

func NewAccountService(accounts AccountStore, hasher password.Hasher, log logrus.FieldLogger) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		log:      log.WithField("service", "account"),
	}
}

// Register validates the candidate and stores it.
func (s *AccountService) Register(ctx context.Context, candidate model.Account) (*model.Account, error) {
	if isBlank(candidate.Username) {
		return nil, invalid("username is blank")
	}
	if isBlank(candidate.Password) || utf8.RuneCountInString(candidate.Password) < MinPasswordLength {
		return nil, invalid("password must be at least 4 characters")
	}

	_, err := s.accounts.FindByUsername(ctx, candidate.Username)
	switch {
	case err == nil:
		return nil, ErrDuplicate
	case !errors.Is(err, store.ErrNotFound):
		return nil, backend(err)
	}

	stored, err := s.hasher.Hash(candidate.Password)
	if err != nil {
		return nil, backend(err)
	}

	acct, err := s.accounts.Insert(ctx, model.Account{Username: candidate.Username, Password: stored})
	if err != nil {
		// The unique constraint catches registrations racing past the lookup above.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, backend(err)
	}

	s.log.WithFields(logrus.Fields{"account_id": acct.ID, "username": acct.Username}).Info("account registered")
	return acct, nil
}

// Login returns the stored account when the credentials match.
func (s *AccountService) Login(ctx context.Context, credentials model.Account) (*model.Account, error) {
	acct, err := s.accounts.FindByUsername(ctx, credentials.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, backend(err)
	}
	if !s.hasher.Matches(acct.Password, credentials.Password) {
		return nil, ErrInvalidCredentials
	}
	return acct, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
