// Package db declares the boundary between the driver core and a server
// connection implementation. The wire protocol, handshake and value encoding
// all live behind the Connection interface; the core only sees queries going
// out and records coming back.
package db

import (
	"context"
	"time"
)

// AccessMode selects which cluster members a unit of work may be routed to.
type AccessMode int

const (
	WriteMode AccessMode = 0
	ReadMode  AccessMode = 1
)

// DefaultDatabase marks the server-side default database instance.
const DefaultDatabase = ""

// TxHandle identifies a server-side transaction on one connection.
type TxHandle uint64

// StreamHandle identifies one result stream on one connection.
type StreamHandle any

// Command is one query execution request.
type Command struct {
	Query     string
	Params    map[string]any
	FetchSize int
}

// NotificationFilter tells the server which query notifications to produce.
type NotificationFilter struct {
	MinSeverity        string
	DisabledCategories []string
}

// TxConfig carries the per-transaction options sent to the server.
type TxConfig struct {
	Mode             AccessMode
	Bookmarks        []string
	Timeout          time.Duration
	Meta             map[string]any
	ImpersonatedUser string
	Notifications    NotificationFilter
}

// Connection is an exclusive-use server connection. The pool hands it out to
// at most one session at a time; it is not safe for concurrent use.
type Connection interface {
	// TxBegin opens an explicit transaction on the server.
	TxBegin(ctx context.Context, txConfig TxConfig) (TxHandle, error)
	// TxCommit commits a transaction previously opened with TxBegin. After a
	// successful commit, Bookmark reflects the new database state.
	TxCommit(ctx context.Context, tx TxHandle) error
	// TxRollback rolls a transaction back. Safe to call on a transaction that
	// already failed server-side.
	TxRollback(ctx context.Context, tx TxHandle) error

	// Run executes a query in an auto-commit transaction. The transaction is
	// committed server-side once its stream has been fully delivered.
	Run(ctx context.Context, cmd Command, txConfig TxConfig) (StreamHandle, error)
	// RunTx executes a query inside an open explicit transaction.
	RunTx(ctx context.Context, tx TxHandle, cmd Command) (StreamHandle, error)

	// Keys returns the record field names of a stream.
	Keys(stream StreamHandle) ([]string, error)
	// Next moves to the next item of a stream, blocking until one is
	// available. If error is nil, exactly one of record and summary is set; a
	// summary means the stream is exhausted.
	Next(ctx context.Context, stream StreamHandle) (*Record, *Summary, error)
	// Consume discards whatever remains of a stream and returns its summary.
	Consume(ctx context.Context, stream StreamHandle) (*Summary, error)
	// Buffer pulls the remainder of a stream into client memory, so another
	// query can be issued while the stream is still being read.
	Buffer(ctx context.Context, stream StreamHandle) error

	// Bookmark returns the bookmark of the last completed transaction on this
	// connection, or the empty string.
	Bookmark() string
	// IsAlive reports whether the connection is still usable. Implementations
	// must be passive here, no pinging.
	IsAlive() bool
	// Reset returns the connection to the state right after connect, rolling
	// back any server-side work still in flight.
	Reset(ctx context.Context)
	// Close tears down the connection. The instance must not be used after.
	Close(ctx context.Context)
}
