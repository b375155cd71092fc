package database

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool. The initial ping is retried
// a bounded number of times with a fixed delay; exhausting the attempts is
// a fatal startup error for the caller.
func New(dataSourceName string, attempts int, delay time.Duration) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}

	if attempts < 1 {
		attempts = 1
	}
	for i := 1; ; i++ {
		err = db.Ping()
		if err == nil {
			return db, nil
		}
		if i >= attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Int("max_attempts", attempts).
			Msg("Database not reachable, retrying")
		time.Sleep(delay)
	}
	db.Close()
	return nil, err
}

// Migrate runs the SQL statements to set up the database schema.
//
// users.email carries a UNIQUE index: the account service checks for
// duplicates before inserting, but the constraint is the authoritative
// backstop for the check-then-act window.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		actor_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
