package norvik

import (
	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/internal/retry"
)

// Server-side and connection-level failures, re-exported from the boundary
// package so callers can classify them without importing internals.
type (
	// ServerError is a failure reported by the server, e.g. a syntax error,
	// a constraint violation or a deadlock.
	ServerError = db.ServerError
	// ConnectivityError means the connection to the server was lost; the
	// outcome of in-flight work is unknown.
	ConnectivityError = db.ConnectivityError
	// ProtocolError means the server response could not be understood and
	// the connection was discarded.
	ProtocolError = db.ProtocolError
	// RetriesExhaustedError wraps the last transient failure after
	// ExecuteRead/ExecuteWrite gave up retrying.
	RetriesExhaustedError = retry.ExhaustedError
)

// IsRetryable reports whether ExecuteRead and ExecuteWrite would retry after
// this error.
func IsRetryable(err error) bool {
	return db.IsRetryable(err)
}

// UsageError is a client-side programming error: the API was called in a way
// that can never succeed, regardless of server state.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

var (
	// ErrSessionClosed is returned by every operation on a closed session.
	ErrSessionClosed = &UsageError{Message: "session is already closed"}
	// ErrTransactionClosed is returned when running or committing on a
	// transaction that has already ended.
	ErrTransactionClosed = &UsageError{Message: "cannot use a transaction that has ended"}
	// ErrTransactionPending is returned when a session is asked for new work
	// while an explicit transaction is still open.
	ErrTransactionPending = &UsageError{Message: "session already has a pending transaction"}
	// ErrResultConsumed is returned when a result is used after the
	// transaction that produced it has ended.
	ErrResultConsumed = &UsageError{Message: "result was invalidated when its transaction ended"}
	// ErrNoRecord is returned by Single and First on an empty stream.
	ErrNoRecord = &UsageError{Message: "result contains no records"}
	// ErrNotSingleRecord is returned by Single when the stream holds more
	// than one record.
	ErrNotSingleRecord = &UsageError{Message: "result contains more than one record"}
	// ErrDriverClosed is returned when sessions are requested from a closed
	// driver.
	ErrDriverClosed = &UsageError{Message: "driver is already closed"}
)
