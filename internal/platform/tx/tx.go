package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager wraps transactional boundaries for multi-statement operations
// within a single store. The session and shelf aggregates deliberately do
// NOT share a transaction; their consistency is handled by repair-on-read.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type ctxKey struct{}

// Execer is the subset of sql.DB/sql.Tx the sqlite adapters need.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLManager runs fn inside a database transaction carried in the context.
// Nested Within calls join the outer transaction.
type SQLManager struct {
	DB *sql.DB
}

func (m SQLManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(ctxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	txn, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, ctxKey{}, txn)); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ExecerFrom returns the transaction bound to ctx, or db when none is running.
func ExecerFrom(ctx context.Context, db *sql.DB) Execer {
	if txn, ok := ctx.Value(ctxKey{}).(*sql.Tx); ok {
		return txn
	}
	return db
}
