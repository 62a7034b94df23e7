package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/placement/internal/db"
)

// FailOnNthExecUoW wraps the real unit of work and makes the FailOn-th write
// of every transaction return Err, so a mirror task can be broken halfway
// through its snapshot. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	writes atomic.Int64
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, owner: u})
	})
}

// Writes counts write attempts across all transactions, including the
// failed one.
func (u *FailOnNthExecUoW) Writes() int64 {
	return u.writes.Load()
}

type failingTx struct {
	db.DBTX
	owner *FailOnNthExecUoW
	n     int
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.n++
	f.owner.writes.Add(1)
	if f.n == f.owner.FailOn {
		return nil, f.owner.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
