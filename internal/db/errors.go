package db

import (
	"errors"
	"fmt"
	"strings"
)

// Server error classifications, the second segment of a status code.
const (
	ClassificationClientError    = "ClientError"
	ClassificationDatabaseError  = "DatabaseError"
	ClassificationTransientError = "TransientError"
)

// ServerError is a failure reported by the server through the protocol, e.g.
// a syntax error, a constraint violation or a deadlock. Code follows the
// "Norvik.<Classification>.<Category>.<Title>" convention.
type ServerError struct {
	Code string
	Msg  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error [%s]: %s", e.Code, e.Msg)
}

// Classification extracts the classification segment of the status code.
func (e *ServerError) Classification() string {
	parts := strings.SplitN(e.Code, ".", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// IsRetryable reports whether the failure is transient enough that a new
// attempt of the same work may succeed.
func (e *ServerError) IsRetryable() bool {
	if e.Classification() == ClassificationTransientError {
		// Terminated and LockClientStopped are transient by code but mean the
		// transaction was killed on purpose.
		return !strings.HasSuffix(e.Code, ".Transaction.Terminated") &&
			!strings.HasSuffix(e.Code, ".Transaction.LockClientStopped")
	}
	switch e.Code {
	// Leader switches surface as client errors but resolve on a fresh
	// connection.
	case "Norvik.ClientError.Cluster.NotALeader",
		"Norvik.ClientError.General.ForbiddenOnReadOnlyDatabase":
		return true
	}
	return false
}

// ConnectivityError means the connection to the server was lost or could not
// be established. The state of in-flight work is unknown.
type ConnectivityError struct {
	Inner error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connectivity error: %s", e.Inner)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Inner
}

// ProtocolError means the server responded with something the connection
// could not make sense of. The connection must be discarded.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Message
}

// IsRetryable classifies an error for the managed transaction retry loop.
// Lost connections are retryable since the work never completed; protocol
// errors and client-side errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.IsRetryable()
	}
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}
