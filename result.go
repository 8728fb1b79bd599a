package norvik

import (
	"context"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// Result is a lazy, single-pass stream of records produced by one query.
// Records arrive in server delivery order and each is observed at most once.
// A Result is bound to the transaction that produced it and becomes invalid
// when that transaction ends. Not safe for concurrent use.
type Result interface {
	// Keys returns the field names shared by all records of the stream.
	Keys() ([]string, error)
	// Next advances to the next record, blocking until the server delivers
	// one. It returns false when the stream is exhausted or failed; after
	// that it keeps returning false. Check Err to tell the two apart.
	Next(ctx context.Context) bool
	// Record returns the record Next advanced to, or nil.
	Record() *Record
	// Err returns the first failure of the stream, if any.
	Err() error
	// Peek reports whether another record is available without consuming it.
	Peek(ctx context.Context) bool
	// PeekRecord returns the upcoming record without consuming it, or nil
	// when the stream is exhausted.
	PeekRecord(ctx context.Context) (*Record, error)
	// Collect drains the remainder of the stream into a slice.
	Collect(ctx context.Context) ([]*Record, error)
	// Single returns the only record of the stream. It fails with ErrNoRecord
	// on an empty stream and with ErrNotSingleRecord, discarding the
	// remainder, when there is more than one record.
	Single(ctx context.Context) (*Record, error)
	// First returns the first record of the stream, discarding the remainder
	// with a warning. It fails with ErrNoRecord on an empty stream.
	First(ctx context.Context) (*Record, error)
	// Consume discards the remainder of the stream and returns its summary.
	// Idempotent once the summary is known; fails with ErrResultConsumed if
	// the owning transaction ended before the stream finished.
	Consume(ctx context.Context) (*ResultSummary, error)
	// IsOpen reports whether more records may still arrive.
	IsOpen() bool
}

type resultCursor struct {
	conn   db.Connection
	stream db.StreamHandle
	query  Query
	state  *txState
	log    logger.Logger

	keys    []string
	record  *Record
	peeked  *Record
	summary *db.Summary
	err     error

	// onFinished fires once, when the summary first becomes known. Auto-commit
	// sessions use it to collect the bookmark and free the connection.
	onFinished func(ctx context.Context)
	finished   bool
}

func newResultCursor(
	conn db.Connection,
	stream db.StreamHandle,
	keys []string,
	query Query,
	state *txState,
	log logger.Logger,
) *resultCursor {
	return &resultCursor{
		conn:   conn,
		stream: stream,
		keys:   keys,
		query:  query,
		state:  state,
		log:    log,
	}
}

func (r *resultCursor) Keys() ([]string, error) {
	return r.keys, nil
}

func (r *resultCursor) Next(ctx context.Context) bool {
	if r.peeked != nil {
		r.record, r.peeked = r.peeked, nil
		return true
	}

	r.record = nil
	if !r.open() {
		return false
	}
	r.record = r.fetch(ctx)
	return r.record != nil
}

func (r *resultCursor) Record() *Record {
	return r.record
}

func (r *resultCursor) Err() error {
	return r.err
}

func (r *resultCursor) Peek(ctx context.Context) bool {
	if r.peeked != nil {
		return true
	}
	if !r.open() {
		return false
	}
	r.peeked = r.fetch(ctx)
	return r.peeked != nil
}

func (r *resultCursor) PeekRecord(ctx context.Context) (*Record, error) {
	if r.Peek(ctx) {
		return r.peeked, nil
	}
	return nil, r.err
}

func (r *resultCursor) Collect(ctx context.Context) ([]*Record, error) {
	var records []*Record
	for r.Next(ctx) {
		records = append(records, r.record)
	}
	if r.err != nil {
		return nil, r.err
	}
	return records, nil
}

func (r *resultCursor) Single(ctx context.Context) (*Record, error) {
	if !r.Next(ctx) {
		if r.err != nil {
			return nil, r.err
		}
		return nil, ErrNoRecord
	}

	single := r.record
	if r.Peek(ctx) {
		if _, err := r.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNotSingleRecord
	}
	if r.err != nil {
		return nil, r.err
	}
	return single, nil
}

func (r *resultCursor) First(ctx context.Context) (*Record, error) {
	if !r.Next(ctx) {
		if r.err != nil {
			return nil, r.err
		}
		return nil, ErrNoRecord
	}

	first := r.record
	if r.Peek(ctx) {
		r.log.Warnf("discarding unread records of query %q", r.query.Text)
		if _, err := r.Consume(ctx); err != nil {
			return nil, err
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return first, nil
}

func (r *resultCursor) Consume(ctx context.Context) (*ResultSummary, error) {
	if r.summary != nil {
		return newSummary(r.query, r.summary), nil
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.state.closed {
		r.err = ErrResultConsumed
		return nil, r.err
	}

	summary, err := r.conn.Consume(ctx, r.stream)
	if err != nil {
		r.err = err
		r.state.fail(err)
		return nil, err
	}

	r.record, r.peeked = nil, nil
	r.summary = summary
	r.finish(ctx)
	return newSummary(r.query, summary), nil
}

func (r *resultCursor) IsOpen() bool {
	return r.summary == nil && r.err == nil && !r.state.closed
}

// open is the fetch guard. Detecting the owning transaction gone while the
// stream was still live marks the cursor invalidated.
func (r *resultCursor) open() bool {
	if r.summary != nil || r.err != nil {
		return false
	}
	if r.state.closed {
		r.err = ErrResultConsumed
		return false
	}
	return true
}

func (r *resultCursor) fetch(ctx context.Context) *Record {
	record, summary, err := r.conn.Next(ctx, r.stream)
	switch {
	case err != nil:
		r.err = err
		r.state.fail(err)
	case summary != nil:
		r.summary = summary
		r.finish(ctx)
	}
	return record
}

// buffer pulls the remainder of the stream into client memory so the
// connection can serve other work while this cursor is still being read.
func (r *resultCursor) buffer(ctx context.Context) error {
	if r.summary != nil || r.err != nil || r.state.closed {
		return nil
	}

	err := r.conn.Buffer(ctx, r.stream)
	if err != nil {
		r.err = err
		r.state.fail(err)
	}
	return err
}

func (r *resultCursor) finish(ctx context.Context) {
	if r.finished {
		return
	}
	r.finished = true
	if r.onFinished != nil {
		r.onFinished(ctx)
	}
}
