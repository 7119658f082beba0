package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/zizouhuweidi/trivia/internal/config"
)

// SQLiteDriver is the database/sql driver name registered by this package.
// Its connections provide unicode_lower(text), which lowercases with Go's
// Unicode tables. SQLite's built-in LOWER only folds ASCII.
const SQLiteDriver = "sqlite3_trivia"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

// ConnectSQLite opens the embedded database file with foreign keys enforced
func ConnectSQLite(ctx context.Context, cfg config.SQLite) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open(SQLiteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}

	return db, nil
}
