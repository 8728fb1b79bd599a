// Package retry drives the attempt loop of managed transactions: classify
// the failure, back off, try again on a fresh transaction until the time
// budget runs out.
package retry

import (
	"fmt"
	"time"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// ExhaustedError is returned when the retry budget of a managed transaction
// ran out before any attempt succeeded. It wraps the last transient failure.
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Cause    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf(
		"transaction retries exhausted after %d attempts in %s: %s",
		e.Attempts, e.Elapsed, e.Cause,
	)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}

// State covers one ExecuteRead/ExecuteWrite invocation. The zero value of
// the private fields is the initial state; callers fill in the public ones.
//
// Usage:
//
//	for state.Continue() {
//	    if done, result := attempt(&state); done {
//	        return result, nil
//	    }
//	}
//	return nil, state.ProduceError()
type State struct {
	MaxTransactionRetryTime time.Duration
	Log                     logger.Logger
	Sleep                   func(time.Duration)
	Throttle                Throttler

	start     time.Time
	attempts  int
	errs      []error
	retryable bool
}

// Continue reports whether another attempt should be made. The first call
// always grants an attempt; later calls require the previous failure to be
// retryable and the time budget to not be spent, and pause before granting.
func (s *State) Continue() bool {
	if s.start.IsZero() {
		s.start = time.Now()
		s.attempts = 1
		return true
	}

	if !s.retryable {
		return false
	}
	if time.Since(s.start) >= s.MaxTransactionRetryTime {
		return false
	}

	s.Throttle = s.Throttle.next()
	s.Log.Infof(
		"transaction failed (%s), retrying in %s (attempt %d)",
		s.errs[len(s.errs)-1], s.Throttle.delay(), s.attempts+1,
	)
	s.Sleep(s.Throttle.delay())
	s.attempts++
	return true
}

// OnFailure records the failure of the current attempt. isCommitting marks
// errors raised while committing: a lost connection there leaves the commit
// outcome unknown, so the work must not be re-run.
func (s *State) OnFailure(err error, isCommitting bool) {
	s.errs = append(s.errs, err)
	s.retryable = db.IsRetryable(err)

	if isCommitting {
		var connErr *db.ConnectivityError
		if errors.As(err, &connErr) {
			s.retryable = false
		}
	}
}

// ProduceError returns the error to surface after the loop gave up: the last
// failure itself when it was not retryable, an ExhaustedError otherwise.
func (s *State) ProduceError() error {
	last := s.errs[len(s.errs)-1]
	if !s.retryable {
		return last
	}
	return &ExhaustedError{
		Attempts: s.attempts,
		Elapsed:  time.Since(s.start),
		Cause:    last,
	}
}
