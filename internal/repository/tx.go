// internal/repository/tx.go
package repository

import (
    "context"
    "database/sql"
    "fmt"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository method can run standalone or inside a transaction.
type Querier interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner runs fn inside a single transaction. If fn returns an error nothing
// it did persists.
type TxRunner interface {
    RunInTx(ctx context.Context, fn func(q Querier) error) error
}

type SQLRunner struct {
    DB *sql.DB
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(q Querier) error) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }

    if err := fn(tx); err != nil {
        if rbErr := tx.Rollback(); rbErr != nil {
            return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
        }
        return err
    }

    if err := tx.Commit(); err != nil {
        return fmt.Errorf("commit tx: %w", err)
    }
    return nil
}

var _ TxRunner = (*SQLRunner)(nil)
