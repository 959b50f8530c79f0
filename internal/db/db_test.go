package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	require.NoError(t, Migrate(DriverSQLite, path))

	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	err = db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('account', 'message') ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "message"}, tables)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		require.NoError(t, Migrate(DriverSQLite, path), "iteration %d", i)
	}
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, Migrate(DriverSQLite, path))

	db, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO message (posted_by, message_text, time_posted_epoch) VALUES (42, 'orphan', 1)")
	assert.Error(t, err)
}

func TestOpen_EnforcesForeignKeysWithCallerOptions(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_journal_mode=WAL"
	require.NoError(t, Migrate(DriverSQLite, dsn))

	db, err := Open(DriverSQLite, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO message (posted_by, message_text, time_posted_epoch) VALUES (42, 'orphan', 1)")
	assert.Error(t, err)
}

func TestMigrate_UnreachablePostgres(t *testing.T) {
	err := Migrate(DriverPostgres, "postgres://nobody@127.0.0.1:1/minitwit?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	err = Migrate("mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestDataSource(t *testing.T) {
	src, err := dataSource(DriverSQLite, "/tmp/x.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db?_foreign_keys=1&_busy_timeout=5000", src)

	src, err = dataSource(DriverSQLite, "file:x.db?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=1&_busy_timeout=5000", src)

	src, err = dataSource(DriverSQLite, "x.db?_fk=0&_timeout=100")
	require.NoError(t, err)
	assert.Equal(t, "x.db?_fk=0&_timeout=100", src)

	src, err = dataSource(DriverSQLite, "x.db?_busy_timeout=100")
	require.NoError(t, err)
	assert.Equal(t, "x.db?_busy_timeout=100&_foreign_keys=1", src)

	src, err = dataSource(DriverPostgres, "postgres://localhost/minitwit")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/minitwit", src)
}
