// Package store holds the SQL access for the account and message tables.
package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"minitwit/internal/model"
)

const accountColumns = "account_id, username, password"

// AccountStore reads and writes the account table.
type AccountStore struct {
	db  *sqlx.DB
	log logrus.FieldLogger
}

// NewAccountStore creates an AccountStore using the provided database handle.
func NewAccountStore(db *sqlx.DB, log logrus.FieldLogger) *AccountStore {
	return &AccountStore{db: db, log: log.WithField("store", "account")}
}

func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	var acct model.Account
	err := s.db.GetContext(ctx, &acct,
		s.db.Rebind("SELECT "+accountColumns+" FROM account WHERE username = ?"), username)
	if err != nil {
		return nil, classify(s.log, "find account by username", err)
	}
	return &acct, nil
}

func (s *AccountStore) FindByID(ctx context.Context, id int) (*model.Account, error) {
	var acct model.Account
	err := s.db.GetContext(ctx, &acct,
		s.db.Rebind("SELECT "+accountColumns+" FROM account WHERE account_id = ?"), id)
	if err != nil {
		return nil, classify(s.log, "find account by id", err)
	}
	return &acct, nil
}

// Insert stores a new account and returns it with its assigned id.
// A taken username yields ErrDuplicate.
func (s *AccountStore) Insert(ctx context.Context, acct model.Account) (*model.Account, error) {
	var created model.Account
	err := s.db.GetContext(ctx, &created, s.db.Rebind(`
		INSERT INTO account (username, password)
		VALUES (?, ?)
		RETURNING `+accountColumns), acct.Username, acct.Password)
	if err != nil {
		return nil, classify(s.log, "insert account", err)
	}
	return &created, nil
}

// List returns every account ordered by id.
func (s *AccountStore) List(ctx context.Context) ([]model.Account, error) {
	accounts := []model.Account{}
	err := s.db.SelectContext(ctx, &accounts,
		"SELECT "+accountColumns+" FROM account ORDER BY account_id")
	if err != nil {
		return nil, classify(s.log, "list accounts", err)
	}
	return accounts, nil
}
