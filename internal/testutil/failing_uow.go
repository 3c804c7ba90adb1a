package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cstcaptive/cstlendar/internal/db"
)

// FailOnNthExecUoW injects Err on the FailOn-th ExecContext call (counting
// from 1) inside the transaction, so callers can assert rollback of
// multi-write operations. Reads are never failed.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  int
	failOn int
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.count++
	if f.count == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
