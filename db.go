package main

import (
	"github.com/jmoiron/sqlx"

	"minitwit/internal/db"
)

// openDB brings the schema up to date and returns a handle to it.
func openDB(driver, dsn string) (*sqlx.DB, error) {
	if err := db.Migrate(driver, dsn); err != nil {
		return nil, err
	}
	return db.Open(driver, dsn)
}
