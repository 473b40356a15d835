// Package db manages the embedded SQLite store used for the local mutation
// audit log.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type SQLExecuter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type ConnectionPool interface {
	SQLExecuter
	Close() error
	Ping(ctx context.Context) error
	SqlxDB() *sqlx.DB
}

// Make sure *connectionPool implements ConnectionPool:
var _ ConnectionPool = (*connectionPool)(nil)

type connectionPool struct {
	*sqlx.DB
}

const MaxDBConnIdleTime = 10 * time.Second

// OpenConnectionPool opens the SQLite database at the given path, creating it
// if needed. ":memory:" is accepted for tests. SQLite allows a single writer,
// so the pool is capped at one open connection.
func OpenConnectionPool(databasePath string) (ConnectionPool, error) {
	sqlxDB, err := sqlx.Open("sqlite3", databasePath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database at %s: %w", databasePath, err)
	}
	sqlxDB.SetConnMaxIdleTime(MaxDBConnIdleTime)
	sqlxDB.SetMaxOpenConns(1)

	return &connectionPool{DB: sqlxDB}, nil
}

func (p *connectionPool) Ping(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

func (p *connectionPool) SqlxDB() *sqlx.DB {
	return p.DB
}
