package norvik

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

const (
	// FetchDefault uses the driver-level fetch size configured in Config.
	FetchDefault = 0
	// FetchAll asks the server to stream whole results without batching.
	FetchAll = -1
)

const (
	defaultMaxTransactionRetryTime      = 30 * time.Second
	defaultFetchSize                    = 1000
	defaultMaxConnectionPoolSize        = 100
	defaultConnectionAcquisitionTimeout = 60 * time.Second
)

// Config holds driver-level settings. Zero fields are replaced by defaults
// when the driver is created.
type Config struct {
	// MaxTransactionRetryTime bounds how long ExecuteRead and ExecuteWrite
	// keep retrying a failed transaction function.
	MaxTransactionRetryTime time.Duration `yaml:"max_transaction_retry_time"`
	// FetchSize is the number of records pulled from the server per batch
	// when a session does not override it. Use FetchAll to disable batching.
	FetchSize int `yaml:"fetch_size"`
	// MaxConnectionPoolSize caps the number of pooled connections.
	MaxConnectionPoolSize int `yaml:"max_connection_pool_size"`
	// ConnectionAcquisitionTimeout bounds waiting for a pooled connection.
	ConnectionAcquisitionTimeout time.Duration `yaml:"connection_acquisition_timeout"`
	// NotificationsMinSeverity filters server notifications below the given
	// severity for all sessions that do not override it.
	NotificationsMinSeverity NotificationMinimumSeverity `yaml:"notifications_min_severity"`
	// NotificationsDisabledCategories drops the listed notification
	// categories for all sessions that do not override it.
	NotificationsDisabledCategories []NotificationCategory `yaml:"notifications_disabled_categories"`
	// Development switches logging to a human-readable console format.
	Development bool `yaml:"development"`
	// Log receives driver, session and retry events. Nil disables logging
	// unless Development is set, which installs a console logger.
	Log logger.Logger `yaml:"-"`
}

// LoadConfig reads a yaml driver configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFail(err, "read config file")
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.WrapFail(err, "parse yaml")
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxTransactionRetryTime < 0 {
		return errors.Fail("max_transaction_retry_time must not be negative")
	}
	if c.FetchSize < FetchAll {
		return errors.Fail("fetch_size must be positive, FetchDefault or FetchAll")
	}
	if c.MaxConnectionPoolSize < 0 {
		return errors.Fail("max_connection_pool_size must not be negative")
	}
	if c.ConnectionAcquisitionTimeout < 0 {
		return errors.Fail("connection_acquisition_timeout must not be negative")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.MaxTransactionRetryTime == 0 {
		c.MaxTransactionRetryTime = defaultMaxTransactionRetryTime
	}
	if c.FetchSize == FetchDefault {
		c.FetchSize = defaultFetchSize
	}
	if c.MaxConnectionPoolSize == 0 {
		c.MaxConnectionPoolSize = defaultMaxConnectionPoolSize
	}
	if c.ConnectionAcquisitionTimeout == 0 {
		c.ConnectionAcquisitionTimeout = defaultConnectionAcquisitionTimeout
	}
}

// AccessMode hints whether a session's work reads or writes, letting a
// clustered deployment route the work accordingly.
type AccessMode int

const (
	// AccessModeWrite routes work to a writable database member.
	AccessModeWrite AccessMode = iota
	// AccessModeRead routes work to any member holding the data.
	AccessModeRead
)

// SessionConfig configures a single session.
type SessionConfig struct {
	// AccessMode is the default routing for work run outside ExecuteRead
	// and ExecuteWrite. Defaults to AccessModeWrite.
	AccessMode AccessMode
	// Bookmarks are the causal dependencies of the session's first unit of
	// work. Empty strings and duplicates are dropped.
	Bookmarks Bookmarks
	// DatabaseName selects the database to run against. Empty means the
	// server's default database.
	DatabaseName string
	// FetchSize overrides the driver-level fetch size for this session.
	// FetchDefault keeps the driver-level value.
	FetchSize int
	// ImpersonatedUser runs the session's work as the given user, when the
	// authenticated user is allowed to impersonate it.
	ImpersonatedUser string
	// BookmarkManager shares bookmarks with other sessions attached to the
	// same manager. Nil disables sharing.
	BookmarkManager BookmarkManager
	// NotificationsMinSeverity overrides the driver-level notification
	// severity filter for this session.
	NotificationsMinSeverity NotificationMinimumSeverity
	// NotificationsDisabledCategories overrides the driver-level disabled
	// notification categories for this session.
	NotificationsDisabledCategories []NotificationCategory
}

// TransactionConfig applies to a single transaction, both explicit and
// managed ones.
type TransactionConfig struct {
	// Timeout overrides the server-side transaction timeout. Zero keeps
	// the server default, negative values are rejected.
	Timeout time.Duration
	// Metadata is attached to the transaction and surfaces in server-side
	// monitoring.
	Metadata map[string]any
}

func (c TransactionConfig) validate() error {
	if c.Timeout < 0 {
		return &UsageError{Message: "transaction timeout must not be negative"}
	}
	return nil
}

// WithTxTimeout returns a transaction configurer setting the server-side
// transaction timeout.
func WithTxTimeout(timeout time.Duration) func(*TransactionConfig) {
	return func(c *TransactionConfig) {
		c.Timeout = timeout
	}
}

// WithTxMetadata returns a transaction configurer attaching metadata to the
// transaction.
func WithTxMetadata(metadata map[string]any) func(*TransactionConfig) {
	return func(c *TransactionConfig) {
		c.Metadata = metadata
	}
}
