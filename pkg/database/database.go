package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

var memoryDBSeq atomic.Int64

type Options struct {
	Driver            string
	DataSource        string
	MaxOpenConns      int
	MaxIdleConns      int
	ConnMaxLifetime   time.Duration
	ConnMaxIdleTime   time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	PingTimeout       time.Duration
	SQLiteBusyTimeout time.Duration
}

type Option func(*Options)

func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

func WithDataSource(dsn string) Option {
	return func(o *Options) { o.DataSource = dsn }
}

func WithMaxOpenConns(count int) Option {
	return func(o *Options) { o.MaxOpenConns = count }
}

func WithMaxIdleConns(count int) Option {
	return func(o *Options) { o.MaxIdleConns = count }
}

func WithConnMaxLifetime(duration time.Duration) Option {
	return func(o *Options) { o.ConnMaxLifetime = duration }
}

func WithConnMaxIdleTime(duration time.Duration) Option {
	return func(o *Options) { o.ConnMaxIdleTime = duration }
}

func WithRetry(attempts int, delay time.Duration) Option {
	return func(o *Options) {
		o.RetryAttempts = attempts
		o.RetryDelay = delay
	}
}

func WithPingTimeout(d time.Duration) Option {
	return func(o *Options) { o.PingTimeout = d }
}

// WithSQLiteBusyTimeout sets how long sqlite3 waits on a locked database. Zero disables it.
func WithSQLiteBusyTimeout(d time.Duration) Option {
	return func(o *Options) { o.SQLiteBusyTimeout = d }
}

// New creates a new database connection pool using the provided options.
func New(opts ...Option) (*sql.DB, error) {
	options := &Options{
		Driver:            "sqlite3",
		DataSource:        ":memory:",
		MaxOpenConns:      25,
		MaxIdleConns:      5,
		ConnMaxLifetime:   5 * time.Minute,
		ConnMaxIdleTime:   2 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Second,
		PingTimeout:       5 * time.Second,
		SQLiteBusyTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Driver == "" {
		return nil, fmt.Errorf("database driver cannot be empty")
	}
	if options.DataSource == "" {
		return nil, fmt.Errorf("database data source cannot be empty")
	}
	if options.RetryAttempts < 1 {
		options.RetryAttempts = 1
	}
	shareInMemorySQLite(options)

	dsn := dataSourceName(options)

	var db *sql.DB
	var err error

	for i := 0; i < options.RetryAttempts; i++ {
		db, err = sql.Open(options.Driver, dsn)
		if err == nil {
			db.SetMaxOpenConns(options.MaxOpenConns)
			db.SetMaxIdleConns(options.MaxIdleConns)
			db.SetConnMaxLifetime(options.ConnMaxLifetime)
			db.SetConnMaxIdleTime(options.ConnMaxIdleTime)

			if err = ping(db, options.PingTimeout); err == nil {
				return db, nil
			}

			db.Close()
		}

		// linear backoff between attempts
		if i < options.RetryAttempts-1 {
			time.Sleep(time.Duration(i+1) * options.RetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", options.RetryAttempts, err)
}

func ping(db *sql.DB, timeout time.Duration) error {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// shareInMemorySQLite gives a plain sqlite ":memory:" pool one named shared-cache
// database, so every pooled connection sees the same tables. Connections are never
// recycled because the database disappears once the last one closes.
func shareInMemorySQLite(o *Options) {
	if o.Driver != "sqlite3" || o.DataSource != ":memory:" {
		return
	}
	o.DataSource = fmt.Sprintf("file:ratings-mem-%d?mode=memory&cache=shared", memoryDBSeq.Add(1))
	o.ConnMaxLifetime = 0
	o.ConnMaxIdleTime = 0
	if o.MaxIdleConns < 1 {
		o.MaxIdleConns = 1
	}
}

// dataSourceName appends driver-specific connection parameters the caller did not set.
func dataSourceName(o *Options) string {
	dsn := o.DataSource
	switch o.Driver {
	case "sqlite3":
		if o.SQLiteBusyTimeout > 0 && !strings.Contains(dsn, "_busy_timeout") {
			dsn = appendParam(dsn, fmt.Sprintf("_busy_timeout=%d", o.SQLiteBusyTimeout.Milliseconds()))
		}
	case "mysql":
		if !strings.Contains(dsn, "parseTime") {
			dsn = appendParam(dsn, "parseTime=false")
		}
	}
	return dsn
}

func appendParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}
