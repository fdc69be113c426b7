// Package database implements the encrypted single-file store: opening the
// SQLite database, applying linear schema migrations on open, and providing
// the transaction boundary the secret repository builds on.
package database

import (
	"context"
	"database/sql"
)

// txKey is a context key type for storing database transactions.
type txKey struct{}

// Querier represents a database query executor (either *sql.DB or *sql.Tx).
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager manages database transactions, serializing writers through the
// store's write lock while read-only access shares its read side.
type TxManager interface {
	// WithWriteTx runs fn inside a committed/rolled-back transaction while
	// holding the store's write lock for the duration (§5: mutating
	// handlers take the write lock for the full transaction).
	WithWriteTx(ctx context.Context, fn func(ctx context.Context) error) error
	// WithReadTx runs fn inside a transaction holding only the read side of
	// the write lock, so any number of readers may proceed concurrently
	// while no writer holds it.
	WithReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// sqlTxManager implements TxManager for the encrypted SQLite store.
type sqlTxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager for the given encrypted store.
func NewTxManager(db *DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithWriteTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.db.Lock().LockWrite()
	defer m.db.Lock().UnlockWrite()
	return m.runTx(ctx, fn)
}

func (m *sqlTxManager) WithReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.db.Lock().LockRead()
	defer m.db.Lock().UnlockRead()
	return m.runTx(ctx, fn)
}

func (m *sqlTxManager) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}

// GetTx retrieves a transaction from context, or returns the raw *sql.DB
// querier when called outside a transaction (read-only handlers that don't
// need one).
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
