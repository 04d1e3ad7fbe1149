package transaction

import (
	"context"
	"database/sql"
	"sync"
)

// DBTX is the subset of database/sql methods shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TX is the handle passed to ForceTx callbacks.
type TX = DBTX

type dbtx struct {
	db *sql.DB

	mu sync.Mutex
}

var _ DBTX = &dbtx{}

// Enable wraps db such that queries routed through GetDBTX join the lazy
// transaction stored in the context, if one has been started with Begin.
func Enable(db *sql.DB) DBTX {
	return &dbtx{db: db}
}

func (d *dbtx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

func (d *dbtx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return d.db.PrepareContext(ctx, query)
}

func (d *dbtx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

func (d *dbtx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// GetDBTX returns the transaction from ctx if one has been started with
// Begin, starting it lazily on first use. Without a transaction container in
// ctx, the fallback is returned unchanged.
func GetDBTX(ctx context.Context, fallback DBTX) DBTX {
	d, ok := fallback.(*dbtx)
	if !ok {
		return fallback
	}

	tc, ok := ctx.Value(tcKey{}).(*transactionContainer)
	if !ok {
		return fallback
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if tc.tx == nil {
		sqlTx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return failedTX{err: err}
		}

		tc.tx = sqlTx
	}

	return tc.tx
}

// Do runs f inside a transaction. The transaction is started lazily on the
// first query f performs, committed when f returns nil and rolled back
// otherwise.
func Do(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, trans := Begin(ctx)

	defer func() { _ = trans.Rollback() }()

	err := f(ctx)
	if err != nil {
		return err
	}

	return trans.Commit()
}

// ForceTx runs f with a real transaction handle even when no lazy transaction
// container is present in ctx. An already-running transaction is reused.
func ForceTx(ctx context.Context, db DBTX, f func(ctx context.Context, tx TX) error) error {
	sqlTx, ok := db.(*sql.Tx)
	if ok {
		return f(ctx, sqlTx)
	}

	d, ok := db.(*dbtx)
	if !ok {
		return f(ctx, db)
	}

	newTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = newTx.Rollback() }()

	err = f(ctx, newTx)
	if err != nil {
		return err
	}

	return newTx.Commit()
}

// failedTX surfaces a transaction begin error on first use, since GetDBTX
// has no error return.
type failedTX struct {
	err error
}

var _ DBTX = failedTX{}

func (f failedTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, f.err
}

func (f failedTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, f.err
}

func (f failedTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, f.err
}

func (f failedTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}
