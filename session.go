package norvik

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/internal/pool"
	"github.com/norvikdb/norvik-go/internal/retry"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// ManagedTransactionWork is the retryable body of ExecuteRead and
// ExecuteWrite. It may run any number of times, so it must be idempotent,
// and it must not leak a live Result out of the closure: every cursor dies
// with the transaction attempt that produced it.
type ManagedTransactionWork func(tx ManagedTransaction) (any, error)

// Session is a sequence of causally chained units of work against one
// database: each unit observes at least the writes of the previous ones.
// A session owns at most one unit of work at a time and is not safe for
// concurrent use.
type Session interface {
	// Run executes a query in an auto-commit transaction. The transaction
	// commits server-side as its stream is delivered; the session completes
	// it at the latest before the next unit of work.
	Run(ctx context.Context, query string, params map[string]any, configurers ...func(*TransactionConfig)) (Result, error)
	// BeginTransaction opens an explicit transaction. While it is open the
	// session refuses any other work with ErrTransactionPending.
	BeginTransaction(ctx context.Context, configurers ...func(*TransactionConfig)) (ExplicitTransaction, error)
	// ExecuteRead runs work in a managed read transaction, retrying
	// transient failures on fresh transactions until the retry budget is
	// spent.
	ExecuteRead(ctx context.Context, work ManagedTransactionWork, configurers ...func(*TransactionConfig)) (any, error)
	// ExecuteWrite is ExecuteRead for writing work.
	ExecuteWrite(ctx context.Context, work ManagedTransactionWork, configurers ...func(*TransactionConfig)) (any, error)
	// LastBookmarks returns the bookmarks of the most recently completed
	// unit of work, or the session's initial bookmarks.
	LastBookmarks() Bookmarks
	// LastBookmark returns the newest of LastBookmarks, or the empty string.
	LastBookmark() string
	// Close rolls back an open explicit transaction, discards a pending
	// auto-commit and frees the session's resources. Every call after Close
	// fails with ErrSessionClosed.
	Close(ctx context.Context) error
}

// sessionPool is the slice of pool.Pool a session needs.
type sessionPool interface {
	Borrow(ctx context.Context) (db.Connection, error)
	Return(ctx context.Context, conn db.Connection)
}

var _ sessionPool = (*pool.Pool)(nil)

type session struct {
	pool          sessionPool
	driverConfig  *Config
	config        SessionConfig
	bookmarks     *sessionBookmarks
	fetchSize     int
	notifications db.NotificationFilter
	log           logger.Logger
	sleep         func(time.Duration)

	explicitTx *transaction
	auto       *autocommit
	closed     bool
}

// autocommit is a still-pending auto-commit transaction: its stream has not
// been fully delivered yet, so its connection is still busy.
type autocommit struct {
	cursor *resultCursor
	conn   db.Connection
	sent   Bookmarks
	done   bool
}

func newSession(driverConfig *Config, config SessionConfig, connections sessionPool, log logger.Logger) *session {
	fetchSize := config.FetchSize
	if fetchSize == FetchDefault {
		fetchSize = driverConfig.FetchSize
	}

	notifications := NotificationFilter{
		MinimumSeverity:    config.NotificationsMinSeverity,
		DisabledCategories: config.NotificationsDisabledCategories,
	}
	if notifications.MinimumSeverity == NotificationsDefault && notifications.DisabledCategories == nil {
		notifications = NotificationFilter{
			MinimumSeverity:    driverConfig.NotificationsMinSeverity,
			DisabledCategories: driverConfig.NotificationsDisabledCategories,
		}
	}

	return &session{
		pool:          connections,
		driverConfig:  driverConfig,
		config:        config,
		bookmarks:     newSessionBookmarks(config.BookmarkManager, config.DatabaseName, config.Bookmarks),
		fetchSize:     fetchSize,
		notifications: notifications.toInternal(),
		log:           log.With("session-" + uuid.NewString()[:8]),
		sleep:         time.Sleep,
	}
}

func (s *session) Run(
	ctx context.Context,
	query string,
	params map[string]any,
	configurers ...func(*TransactionConfig),
) (Result, error) {
	config, err := s.prepare(ctx, configurers)
	if err != nil {
		return nil, err
	}

	txConfig, sent, err := s.txConfig(ctx, s.accessMode(), config)
	if err != nil {
		return nil, err
	}

	conn, err := s.borrow(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := conn.Run(ctx, db.Command{
		Query:     query,
		Params:    params,
		FetchSize: s.fetchSize,
	}, txConfig)
	if err != nil {
		s.pool.Return(ctx, conn)
		return nil, err
	}

	keys, err := conn.Keys(stream)
	if err != nil {
		s.pool.Return(ctx, conn)
		return nil, err
	}

	cursor := newResultCursor(conn, stream, keys, Query{Text: query, Parameters: params}, &txState{}, s.log)
	pending := &autocommit{cursor: cursor, conn: conn, sent: sent}
	cursor.onFinished = func(ctx context.Context) {
		s.log.Error(errors.WrapFail(s.finishAutocommit(ctx, pending), "record auto-commit bookmark"))
	}
	s.auto = pending
	return cursor, nil
}

func (s *session) BeginTransaction(ctx context.Context, configurers ...func(*TransactionConfig)) (ExplicitTransaction, error) {
	config, err := s.prepare(ctx, configurers)
	if err != nil {
		return nil, err
	}

	txConfig, sent, err := s.txConfig(ctx, s.accessMode(), config)
	if err != nil {
		return nil, err
	}

	conn, err := s.borrow(ctx)
	if err != nil {
		return nil, err
	}

	handle, err := conn.TxBegin(ctx, txConfig)
	if err != nil {
		s.pool.Return(ctx, conn)
		return nil, err
	}

	tx := &transaction{
		conn:      conn,
		handle:    handle,
		fetchSize: s.fetchSize,
		state:     &txState{},
		log:       s.log,
	}
	tx.onClosed = func(ctx context.Context, committed bool) error {
		s.explicitTx = nil
		var bookmark string
		if committed {
			bookmark = conn.Bookmark()
		}
		s.pool.Return(ctx, conn)
		return s.bookmarks.replaceBookmarks(ctx, sent, bookmark)
	}
	s.explicitTx = tx
	return tx, nil
}

func (s *session) ExecuteRead(
	ctx context.Context,
	work ManagedTransactionWork,
	configurers ...func(*TransactionConfig),
) (any, error) {
	return s.runRetryable(ctx, db.ReadMode, work, configurers)
}

func (s *session) ExecuteWrite(
	ctx context.Context,
	work ManagedTransactionWork,
	configurers ...func(*TransactionConfig),
) (any, error) {
	return s.runRetryable(ctx, db.WriteMode, work, configurers)
}

func (s *session) runRetryable(
	ctx context.Context,
	mode db.AccessMode,
	work ManagedTransactionWork,
	configurers []func(*TransactionConfig),
) (any, error) {
	config, err := s.prepare(ctx, configurers)
	if err != nil {
		return nil, err
	}

	state := retry.State{
		MaxTransactionRetryTime: s.driverConfig.MaxTransactionRetryTime,
		Log:                     s.log,
		Sleep:                   s.sleep,
	}
	for state.Continue() {
		result, committing, err := s.attemptTransaction(ctx, mode, config, work)
		if err == nil {
			return result, nil
		}
		state.OnFailure(err, committing)
	}
	return nil, state.ProduceError()
}

// attemptTransaction runs one attempt of a managed transaction on a freshly
// borrowed connection. Returning the connection rolls back whatever the
// attempt left unfinished. committing marks failures with an ambiguous
// outcome, raised after the commit request went out.
func (s *session) attemptTransaction(
	ctx context.Context,
	mode db.AccessMode,
	config TransactionConfig,
	work ManagedTransactionWork,
) (result any, committing bool, err error) {
	txConfig, sent, err := s.txConfig(ctx, mode, config)
	if err != nil {
		return nil, false, err
	}

	conn, err := s.borrow(ctx)
	if err != nil {
		return nil, false, err
	}
	defer s.pool.Return(ctx, conn)

	handle, err := conn.TxBegin(ctx, txConfig)
	if err != nil {
		return nil, false, err
	}

	tx := &transaction{
		conn:      conn,
		handle:    handle,
		fetchSize: s.fetchSize,
		state:     &txState{},
		log:       s.log,
	}
	defer func() { tx.state.closed = true }()

	result, err = work(managedTransaction{inner: tx})
	if err != nil {
		return nil, false, err
	}
	if tx.state.err != nil {
		// The work function swallowed a failed query.
		return nil, false, tx.state.err
	}

	err = conn.TxCommit(ctx, handle)
	if err != nil {
		return nil, true, err
	}

	err = s.bookmarks.replaceBookmarks(ctx, sent, conn.Bookmark())
	if err != nil {
		return nil, false, err
	}
	return result, false, nil
}

func (s *session) LastBookmarks() Bookmarks {
	return s.bookmarks.currentBookmarks()
}

func (s *session) LastBookmark() string {
	return s.bookmarks.lastBookmark()
}

func (s *session) Close(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	var err error
	if s.explicitTx != nil {
		err = s.explicitTx.Rollback(ctx)
	}

	if pending := s.auto; pending != nil && !pending.done {
		pending.done = true
		s.auto = nil
		pending.cursor.state.closed = true
		s.pool.Return(ctx, pending.conn)
	}
	return errors.WrapFail(err, "close session")
}

// prepare guards a new unit of work: the session must be open, must not
// hold an open explicit transaction, and a pending auto-commit must be
// completed first so its connection and bookmark are collected.
func (s *session) prepare(ctx context.Context, configurers []func(*TransactionConfig)) (TransactionConfig, error) {
	if s.closed {
		return TransactionConfig{}, ErrSessionClosed
	}
	if s.explicitTx != nil {
		return TransactionConfig{}, ErrTransactionPending
	}

	var config TransactionConfig
	for _, configure := range configurers {
		configure(&config)
	}
	if err := config.validate(); err != nil {
		return TransactionConfig{}, err
	}

	return config, s.completeAutocommit(ctx)
}

// completeAutocommit finishes a pending auto-commit transaction: the rest of
// its stream is pulled into client memory, the produced bookmark recorded
// and the connection freed. The cursor stays readable.
func (s *session) completeAutocommit(ctx context.Context) error {
	pending := s.auto
	if pending == nil {
		return nil
	}

	if err := pending.cursor.buffer(ctx); err != nil {
		// The auto-commit failed; its error stays visible on the cursor.
		s.log.Debug(errors.WrapFail(err, "complete pending auto-commit"))
	}
	return s.finishAutocommit(ctx, pending)
}

// finishAutocommit collects the bookmark of a delivered auto-commit stream
// and frees its connection. Idempotent; also fired by the cursor when the
// stream exhausts during iteration.
func (s *session) finishAutocommit(ctx context.Context, pending *autocommit) error {
	if pending.done {
		return nil
	}
	pending.done = true
	if s.auto == pending {
		s.auto = nil
	}

	bookmark := pending.conn.Bookmark()
	s.pool.Return(ctx, pending.conn)
	return s.bookmarks.replaceBookmarks(ctx, pending.sent, bookmark)
}

func (s *session) accessMode() db.AccessMode {
	if s.config.AccessMode == AccessModeRead {
		return db.ReadMode
	}
	return db.WriteMode
}

func (s *session) txConfig(ctx context.Context, mode db.AccessMode, config TransactionConfig) (db.TxConfig, Bookmarks, error) {
	bookmarks, err := s.bookmarks.getBookmarks(ctx)
	if err != nil {
		return db.TxConfig{}, nil, errors.WrapFail(err, "resolve session bookmarks")
	}

	return db.TxConfig{
		Mode:             mode,
		Bookmarks:        bookmarks,
		Timeout:          config.Timeout,
		Meta:             config.Metadata,
		ImpersonatedUser: s.config.ImpersonatedUser,
		Notifications:    s.notifications,
	}, bookmarks, nil
}

func (s *session) borrow(ctx context.Context) (db.Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.driverConfig.ConnectionAcquisitionTimeout)
	defer cancel()
	return s.pool.Borrow(ctx)
}
