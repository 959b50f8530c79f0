package store

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"minitwit/internal/db"
	"minitwit/internal/model"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// createTestDB opens a migrated sqlite database in a temp dir.
func createTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Migrate(db.DriverSQLite, path))
	conn, err := db.Open(db.DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// createMockDB returns a handle backed by go-sqlmock for failure injection.
func createMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return sqlx.NewDb(conn, "sqlmock"), mock
}

func createTestAccount(t *testing.T, s *AccountStore, username string) *model.Account {
	t.Helper()
	acct, err := s.Insert(t.Context(), model.Account{Username: username, Password: "secret"})
	require.NoError(t, err)
	return acct
}
