// Package db opens the relational backend and applies the embedded schema.
//
// Two drivers are supported: "sqlite3" (the default, a file on disk) and
// "postgres". Both share the same table layout; only the migration files and
// the placeholder style differ, and sqlx.Rebind hides the latter.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

// ErrUnsupportedDriver is returned for any driver other than sqlite3 or postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open connects to the database and verifies the connection.
func Open(driver, dsn string) (*sqlx.DB, error) {
	source, err := dataSource(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	return db, nil
}

// Migrate applies every pending migration for the driver. It uses its own
// connection because the migrate drivers close the handle they are given.
func Migrate(driver, dsn string) error {
	source, err := dataSource(driver, dsn)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	case DriverPostgres:
		target, err = migratepg.WithInstance(conn, &migratepg.Config{})
	}
	if err != nil {
		src.Close()
		conn.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		src.Close()
		target.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// dataSource adds the sqlite connection options the stores rely on
// (foreign keys on, a busy timeout). Options the caller already set are kept.
func dataSource(driver, dsn string) (string, error) {
	switch driver {
	case DriverSQLite:
		var params url.Values
		if i := strings.IndexByte(dsn, '?'); i >= 0 {
			params, _ = url.ParseQuery(dsn[i+1:])
		}
		var missing []string
		if !hasParam(params, "_foreign_keys", "_fk") {
			missing = append(missing, "_foreign_keys=1")
		}
		if !hasParam(params, "_busy_timeout", "_timeout") {
			missing = append(missing, "_busy_timeout=5000")
		}
		if len(missing) == 0 {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + strings.Join(missing, "&"), nil
	case DriverPostgres:
		return dsn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func hasParam(params url.Values, names ...string) bool {
	for _, name := range names {
		if params.Has(name) {
			return true
		}
	}
	return false
}
