package norvik

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/internal/pool"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// newTestSession builds a session over a pooled fake backend, with retry
// pauses disabled.
func newTestSession(server *fakeServer, config SessionConfig) *session {
	driverConfig := &Config{}
	driverConfig.setDefaults()

	connections := pool.New(context.Background(), 4, server.connect, logger.NewNop())
	s := newSession(driverConfig, config, connections, logger.NewNop())
	s.sleep = func(time.Duration) {}
	return s
}

// fakeServer is a scripted in-memory backend shared by the connections of
// one test. Effects of a query apply only when its transaction commits.
type fakeServer struct {
	mu sync.Mutex

	// results scripts the stream of each query text.
	results map[string]scriptedResult
	// runFailures are popped per query text on Run/RunTx.
	runFailures map[string][]error
	// beginFailures are popped on TxBegin.
	beginFailures []error
	// commitFailures are popped on TxCommit.
	commitFailures []error

	// applied lists the queries of committed transactions, in commit order.
	applied []string
	// begins records the TxConfig of every started transaction.
	begins []db.TxConfig

	bookmarkSeq int
	connections int
}

type scriptedResult struct {
	keys     []string
	records  [][]any
	errAfter error
	counters db.Counters
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		results:     make(map[string]scriptedResult),
		runFailures: make(map[string][]error),
	}
}

func (s *fakeServer) script(query string, result scriptedResult) {
	s.results[query] = result
}

func (s *fakeServer) failRun(query string, err error) {
	s.runFailures[query] = append(s.runFailures[query], err)
}

func (s *fakeServer) failCommit(err error) {
	s.commitFailures = append(s.commitFailures, err)
}

func (s *fakeServer) failBegin(err error) {
	s.beginFailures = append(s.beginFailures, err)
}

func (s *fakeServer) connect(context.Context) (db.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
	return &fakeConnection{server: s, alive: true, txs: make(map[db.TxHandle]*fakeTx)}, nil
}

func (s *fakeServer) appliedQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.applied...)
}

func (s *fakeServer) lastBegin() db.TxConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins[len(s.begins)-1]
}

func (s *fakeServer) newBookmark() string {
	s.bookmarkSeq++
	return fmt.Sprintf("bm-%d", s.bookmarkSeq)
}

type fakeTx struct {
	queries []string
	done    bool
}

type fakeConnection struct {
	server     *fakeServer
	alive      bool
	bookmark   string
	nextHandle db.TxHandle
	txs        map[db.TxHandle]*fakeTx
}

type fakeStream struct {
	conn     *fakeConnection
	query    string
	keys     []string
	records  []*db.Record
	pos      int
	errAfter error
	summary  *db.Summary
	// auto is the auto-commit transaction completed when the stream finishes.
	auto *fakeTx
}

func (c *fakeConnection) TxBegin(_ context.Context, txConfig db.TxConfig) (db.TxHandle, error) {
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.beginFailures) > 0 {
		err := s.beginFailures[0]
		s.beginFailures = s.beginFailures[1:]
		c.failWith(err)
		return 0, err
	}

	s.begins = append(s.begins, txConfig)
	c.nextHandle++
	c.txs[c.nextHandle] = &fakeTx{}
	return c.nextHandle, nil
}

func (c *fakeConnection) TxCommit(_ context.Context, tx db.TxHandle) (err error) {
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.commitFailures) > 0 {
		err = s.commitFailures[0]
		s.commitFailures = s.commitFailures[1:]
		c.failWith(err)
		return err
	}

	t := c.txs[tx]
	t.done = true
	s.applied = append(s.applied, t.queries...)
	c.bookmark = s.newBookmark()
	return nil
}

func (c *fakeConnection) TxRollback(_ context.Context, tx db.TxHandle) error {
	c.txs[tx].done = true
	return nil
}

func (c *fakeConnection) Run(_ context.Context, cmd db.Command, txConfig db.TxConfig) (db.StreamHandle, error) {
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	s.begins = append(s.begins, txConfig)
	if err := s.popRunFailure(cmd.Query); err != nil {
		c.failWith(err)
		return nil, err
	}
	return c.newStream(cmd.Query, &fakeTx{queries: []string{cmd.Query}}), nil
}

func (c *fakeConnection) RunTx(_ context.Context, tx db.TxHandle, cmd db.Command) (db.StreamHandle, error) {
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.popRunFailure(cmd.Query); err != nil {
		c.failWith(err)
		return nil, err
	}
	c.txs[tx].queries = append(c.txs[tx].queries, cmd.Query)
	return c.newStream(cmd.Query, nil), nil
}

// newStream builds the scripted stream of a query. Callers hold server.mu.
func (c *fakeConnection) newStream(query string, auto *fakeTx) *fakeStream {
	scripted := c.server.results[query]
	keys := scripted.keys
	if keys == nil {
		keys = []string{"n"}
	}

	records := make([]*db.Record, 0, len(scripted.records))
	for _, values := range scripted.records {
		records = append(records, &db.Record{Keys: keys, Values: values})
	}

	return &fakeStream{
		conn:     c,
		query:    query,
		keys:     keys,
		records:  records,
		errAfter: scripted.errAfter,
		auto:     auto,
	}
}

func (s *fakeServer) popRunFailure(query string) error {
	failures := s.runFailures[query]
	if len(failures) == 0 {
		return nil
	}
	err := failures[0]
	s.runFailures[query] = failures[1:]
	return err
}

func (c *fakeConnection) Keys(stream db.StreamHandle) ([]string, error) {
	return stream.(*fakeStream).keys, nil
}

func (c *fakeConnection) Next(_ context.Context, stream db.StreamHandle) (*db.Record, *db.Summary, error) {
	st := stream.(*fakeStream)
	if st.pos < len(st.records) {
		record := st.records[st.pos]
		st.pos++
		return record, nil, nil
	}
	if st.errAfter != nil {
		err := st.errAfter
		st.conn.failWith(err)
		return nil, nil, err
	}
	return nil, st.finish(), nil
}

func (c *fakeConnection) Consume(_ context.Context, stream db.StreamHandle) (*db.Summary, error) {
	st := stream.(*fakeStream)
	st.pos = len(st.records)
	if st.errAfter != nil {
		err := st.errAfter
		st.conn.failWith(err)
		return nil, err
	}
	return st.finish(), nil
}

func (c *fakeConnection) Buffer(_ context.Context, stream db.StreamHandle) error {
	st := stream.(*fakeStream)
	if st.errAfter != nil {
		err := st.errAfter
		st.conn.failWith(err)
		return err
	}
	// Records already live in memory; completing the stream commits a
	// pending auto-commit transaction server-side.
	st.finish()
	return nil
}

// finish marks the stream fully delivered, committing its auto-commit
// transaction on first call.
func (st *fakeStream) finish() *db.Summary {
	if st.summary != nil {
		return st.summary
	}

	server := st.conn.server
	server.mu.Lock()
	defer server.mu.Unlock()

	var bookmark string
	if st.auto != nil && !st.auto.done {
		st.auto.done = true
		server.applied = append(server.applied, st.auto.queries...)
		bookmark = server.newBookmark()
		st.conn.bookmark = bookmark
	}

	scripted := server.results[st.query]
	st.summary = &db.Summary{
		Bookmark: bookmark,
		StmtType: db.StatementTypeReadWrite,
		Counters: scripted.counters,
		Database: "testdb",
	}
	return st.summary
}

func (c *fakeConnection) Bookmark() string {
	return c.bookmark
}

func (c *fakeConnection) IsAlive() bool {
	return c.alive
}

func (c *fakeConnection) Reset(context.Context) {
	for _, tx := range c.txs {
		tx.done = true
	}
	c.bookmark = ""
}

func (c *fakeConnection) Close(context.Context) {
	c.alive = false
}

// failWith kills the connection on connectivity failures, like a real one.
func (c *fakeConnection) failWith(err error) {
	var connErr *db.ConnectivityError
	if errors.As(err, &connErr) {
		c.alive = false
	}
}
