package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const TxKey contextKey = "db_tx"

// Queryable is the subset of pgx operations the repositories need. It is
// satisfied by *pgxpool.Pool, *pgxpool.Conn, and pgx.Tx.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TxRunner executes a function as a single atomic unit. Repositories pick
// the transaction up from the context, so every store call inside fn joins
// the same transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgTxRunner runs functions inside a Postgres transaction.
type PgTxRunner struct {
	pool txBeginner
}

// NewPgTxRunner creates a TxRunner backed by the given pool.
func NewPgTxRunner(pool txBeginner) *PgTxRunner {
	return &PgTxRunner{pool: pool}
}

func (r *PgTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Prefer the tenant-scoped connection so the transaction inherits the
	// tenant search_path set by the middleware.
	begin := r.pool
	if c := ConnFromContext(ctx); c != nil {
		begin = c
	}

	tx, err := begin.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, TxKey, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NopTxRunner runs the function directly. Used with the in-memory stores,
// which guard their own consistency with locks.
type NopTxRunner struct{}

func (NopTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// TxFromContext retrieves the active transaction from context, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(TxKey).(pgx.Tx)
	return tx
}
