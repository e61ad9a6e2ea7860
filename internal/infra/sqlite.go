// README: SQLite connection setup (pure Go driver) for local run history.
package infra

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens path with WAL journaling. ":memory:" keeps a single
// connection so every query sees the same database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite wal: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite busy_timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("[INFRA] sqlite ready: %s", path)
	return db, nil
}
