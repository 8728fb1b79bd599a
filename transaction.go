package norvik

import (
	"context"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// ManagedTransaction is the transaction handed to ExecuteRead and
// ExecuteWrite work functions. Its lifetime belongs to the driver: the work
// function only runs queries, the retry loop commits or rolls back.
type ManagedTransaction interface {
	// Run executes a query inside the transaction. Queries run strictly in
	// call order over the transaction's exclusive connection.
	Run(ctx context.Context, query string, params map[string]any) (Result, error)
}

// ExplicitTransaction is a transaction opened with Session.BeginTransaction.
// The caller decides its outcome. Not safe for concurrent use.
type ExplicitTransaction interface {
	ManagedTransaction
	// Commit makes the transaction's writes visible and produces a bookmark.
	Commit(ctx context.Context) error
	// Rollback discards the transaction's writes. A no-op on a transaction
	// that has already ended.
	Rollback(ctx context.Context) error
	// Close rolls the transaction back unless it was committed. Idempotent.
	Close(ctx context.Context) error
}

// txState is shared between a transaction and the cursors it produced, so
// the cursors can observe the transaction ending or breaking.
type txState struct {
	// closed is set when the transaction reached a terminal state, committed
	// or rolled back.
	closed bool
	// err holds the first failure that broke the transaction server-side.
	err error
}

func (s *txState) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

type transaction struct {
	conn      db.Connection
	handle    db.TxHandle
	fetchSize int
	state     *txState
	log       logger.Logger

	lastCursor *resultCursor

	// onClosed releases session resources. committed reports whether the
	// transaction's bookmark must be collected.
	onClosed func(ctx context.Context, committed bool) error
}

func (tx *transaction) Run(ctx context.Context, query string, params map[string]any) (Result, error) {
	if tx.state.closed {
		return nil, ErrTransactionClosed
	}
	if tx.state.err != nil {
		return nil, tx.state.err
	}

	// The previous stream must leave the wire before a new query goes out.
	if tx.lastCursor != nil {
		if err := tx.lastCursor.buffer(ctx); err != nil {
			return nil, err
		}
	}

	stream, err := tx.conn.RunTx(ctx, tx.handle, db.Command{
		Query:     query,
		Params:    params,
		FetchSize: tx.fetchSize,
	})
	if err != nil {
		tx.state.fail(err)
		return nil, err
	}

	keys, err := tx.conn.Keys(stream)
	if err != nil {
		tx.state.fail(err)
		return nil, err
	}

	cursor := newResultCursor(tx.conn, stream, keys, Query{Text: query, Parameters: params}, tx.state, tx.log)
	tx.lastCursor = cursor
	return cursor, nil
}

func (tx *transaction) Commit(ctx context.Context) error {
	if tx.state.closed {
		return ErrTransactionClosed
	}
	if tx.state.err != nil {
		return errors.WrapFail(tx.state.err, "commit transaction that already failed")
	}

	err := tx.conn.TxCommit(ctx, tx.handle)
	tx.state.closed = true
	if err != nil {
		tx.state.fail(err)
		return errors.Collapse(err, tx.onClosed(ctx, false))
	}
	return tx.onClosed(ctx, true)
}

func (tx *transaction) Rollback(ctx context.Context) error {
	if tx.state.closed {
		return nil
	}

	var err error
	if tx.state.err == nil {
		// A broken transaction needs no explicit rollback, returning the
		// connection resets it server-side.
		err = tx.conn.TxRollback(ctx, tx.handle)
	}
	tx.state.closed = true
	return errors.Collapse(err, tx.onClosed(ctx, false))
}

func (tx *transaction) Close(ctx context.Context) error {
	if tx.state.closed {
		return nil
	}
	return tx.Rollback(ctx)
}

// managedTransaction hides the lifecycle methods from work functions, so a
// work function cannot commit or roll back the transaction it was given.
type managedTransaction struct {
	inner *transaction
}

func (m managedTransaction) Run(ctx context.Context, query string, params map[string]any) (Result, error) {
	return m.inner.Run(ctx, query, params)
}
