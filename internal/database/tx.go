package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor is the statement surface shared by *sql.DB and *sql.Tx, so a
// repository method can run against either without knowing which.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// FromContext returns the transaction carried by ctx, or db when none is.
func FromContext(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// InTx runs fn with a transaction carried through the context: every
// repository call made from fn with that context lands on the same
// transaction, which commits when fn returns nil and rolls back otherwise.
// A context that already carries a transaction joins it instead of nesting.
func InTx(ctx context.Context, db *sql.DB, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Transactor runs functions in one database transaction. It satisfies the
// transaction-runner interfaces the write services declare.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a transactor over the given database
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// InTx runs fn inside a single transaction
func (t *Transactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	return InTx(ctx, t.db, fn)
}
