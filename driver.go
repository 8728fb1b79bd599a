package norvik

import (
	"context"
	"sync"

	"github.com/norvikdb/norvik-go/internal/pool"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// Connector opens a new server connection. It is the seam between the driver
// core and a wire protocol implementation.
type Connector = pool.Connector

// Driver is the entry point of the module: it owns the connection pool and
// hands out sessions. Safe for concurrent use; create one per application.
type Driver interface {
	// NewSession creates a session. Fails with ErrDriverClosed after Close.
	NewSession(ctx context.Context, config SessionConfig) (Session, error)
	// ExecuteQueryBookmarkManager returns the bookmark manager that chains
	// ExecuteQuery calls causally. Built lazily, always the same instance.
	ExecuteQueryBookmarkManager() BookmarkManager
	// VerifyConnectivity opens or borrows a server connection to check the
	// server is reachable.
	VerifyConnectivity(ctx context.Context) error
	// Close frees the pool and every idle connection. Idempotent.
	Close(ctx context.Context) error
}

// NewDriver builds a Driver on top of connect, applying the given config
// overrides over the defaults.
func NewDriver(connect Connector, configurers ...func(*Config)) (Driver, error) {
	config := &Config{}
	for _, configure := range configurers {
		configure(config)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	log := config.Log
	if log == nil {
		if config.Development {
			var err error
			log, err = logger.New(true)
			if err != nil {
				return nil, err
			}
		} else {
			log = logger.NewNop()
		}
	}
	log = log.With("norvik")

	return &driver{
		config: config,
		pool:   pool.New(context.Background(), config.MaxConnectionPoolSize, connect, log),
		log:    log,
	}, nil
}

// WithConfig returns a driver configurer replacing the whole configuration,
// e.g. with one produced by LoadConfig.
func WithConfig(config Config) func(*Config) {
	return func(c *Config) {
		*c = config
	}
}

// WithLogger returns a driver configurer installing a logger.
func WithLogger(log logger.Logger) func(*Config) {
	return func(c *Config) {
		c.Log = log
	}
}

type driver struct {
	config *Config
	pool   *pool.Pool
	log    logger.Logger

	bookmarksOnce   sync.Once
	sharedBookmarks BookmarkManager

	mu     sync.Mutex
	closed bool
}

func (d *driver) NewSession(ctx context.Context, config SessionConfig) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDriverClosed
	}
	return newSession(d.config, config, d.pool, d.log), nil
}

func (d *driver) ExecuteQueryBookmarkManager() BookmarkManager {
	d.bookmarksOnce.Do(func() {
		d.sharedBookmarks = NewBookmarkManager(BookmarkManagerConfig{})
	})
	return d.sharedBookmarks
}

func (d *driver) VerifyConnectivity(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDriverClosed
	}
	d.mu.Unlock()

	conn, err := d.pool.Borrow(ctx)
	if err != nil {
		return errors.WrapFail(err, "reach server")
	}
	d.pool.Return(ctx, conn)
	return nil
}

func (d *driver) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.pool.Close(ctx)
	return nil
}

// RoutingControl selects which cluster members an ExecuteQuery call may be
// routed to.
type RoutingControl int

const (
	// Writers routes the query to a writable database member.
	Writers RoutingControl = iota
	// Readers routes the query to any member holding the data.
	Readers
)

// ExecuteQueryConfiguration configures one ExecuteQuery call.
type ExecuteQueryConfiguration struct {
	Routing          RoutingControl
	Database         string
	ImpersonatedUser string
	// BookmarkManager chains this call causally with others sharing the
	// same manager. Defaults to the driver's ExecuteQueryBookmarkManager.
	BookmarkManager BookmarkManager
	// TxConfigurers apply to the underlying managed transaction.
	TxConfigurers []func(*TransactionConfig)
}

// ExecuteQueryOption mutates an ExecuteQueryConfiguration.
type ExecuteQueryOption func(*ExecuteQueryConfiguration)

// ExecuteQueryWithReadersRouting routes the query to readers.
func ExecuteQueryWithReadersRouting() ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.Routing = Readers
	}
}

// ExecuteQueryWithWritersRouting routes the query to writers.
func ExecuteQueryWithWritersRouting() ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.Routing = Writers
	}
}

// ExecuteQueryWithDatabase selects the database to run against.
func ExecuteQueryWithDatabase(database string) ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.Database = database
	}
}

// ExecuteQueryWithImpersonatedUser runs the query as the given user.
func ExecuteQueryWithImpersonatedUser(user string) ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.ImpersonatedUser = user
	}
}

// ExecuteQueryWithBookmarkManager replaces the bookmark manager of the call.
func ExecuteQueryWithBookmarkManager(manager BookmarkManager) ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.BookmarkManager = manager
	}
}

// ExecuteQueryWithoutBookmarkManager opts the call out of causal chaining.
func ExecuteQueryWithoutBookmarkManager() ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.BookmarkManager = nil
	}
}

// ExecuteQueryWithTxConfig applies transaction configurers, e.g.
// WithTxTimeout, to the underlying managed transaction.
func ExecuteQueryWithTxConfig(configurers ...func(*TransactionConfig)) ExecuteQueryOption {
	return func(c *ExecuteQueryConfiguration) {
		c.TxConfigurers = append(c.TxConfigurers, configurers...)
	}
}

// ResultTransformer folds a result stream into a value of type T.
type ResultTransformer[T any] interface {
	// Accept is called once per record, in stream order.
	Accept(record *Record) error
	// Complete is called once the stream is exhausted.
	Complete(keys []string, summary *ResultSummary) (T, error)
}

// EagerResult is a fully materialized query result.
type EagerResult struct {
	Keys    []string
	Records []*Record
	Summary *ResultSummary
}

// EagerResultTransformer collects the whole stream into an EagerResult. It
// is the default transformer of ExecuteQuery.
func EagerResultTransformer() ResultTransformer[*EagerResult] {
	return &eagerTransformer{}
}

type eagerTransformer struct {
	records []*Record
}

func (t *eagerTransformer) Accept(record *Record) error {
	t.records = append(t.records, record)
	return nil
}

func (t *eagerTransformer) Complete(keys []string, summary *ResultSummary) (*EagerResult, error) {
	return &EagerResult{Keys: keys, Records: t.records, Summary: summary}, nil
}

// ExecuteQuery runs a single query in a managed transaction on a short-lived
// session, retrying transient failures, and folds the stream with the given
// transformer. Calls through the same driver are causally chained by default
// via the driver's ExecuteQueryBookmarkManager.
func ExecuteQuery[T any](
	ctx context.Context,
	d Driver,
	query string,
	params map[string]any,
	newTransformer func() ResultTransformer[T],
	options ...ExecuteQueryOption,
) (out T, err error) {
	config := ExecuteQueryConfiguration{
		BookmarkManager: d.ExecuteQueryBookmarkManager(),
	}
	for _, apply := range options {
		apply(&config)
	}

	session, err := d.NewSession(ctx, SessionConfig{
		DatabaseName:     config.Database,
		ImpersonatedUser: config.ImpersonatedUser,
		BookmarkManager:  config.BookmarkManager,
	})
	if err != nil {
		return out, err
	}
	defer func() {
		err = errors.Collapse(err, session.Close(ctx))
	}()

	execute := session.ExecuteWrite
	if config.Routing == Readers {
		execute = session.ExecuteRead
	}

	result, err := execute(ctx, func(tx ManagedTransaction) (any, error) {
		cursor, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		transformer := newTransformer()
		for cursor.Next(ctx) {
			if err := transformer.Accept(cursor.Record()); err != nil {
				return nil, err
			}
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}

		keys, err := cursor.Keys()
		if err != nil {
			return nil, err
		}
		summary, err := cursor.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return transformer.Complete(keys, summary)
	}, config.TxConfigurers...)
	if err != nil {
		return out, err
	}
	return result.(T), nil
}
