package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"movieapi/errs"
)

var ErrNotInitialized = errs.Errorf(errs.EINTERNAL, "connection pool not initialized")

type Options struct {
	DBName   string
	DBUser   string
	Password string
	Host     string
	Port     string
	SSLMode  bool

	// Pool bounds. Zero values fall back to 2 and 10.
	MinConns int
	MaxConns int
}

func (o Options) datasource() string {
	sslmode := "disable"
	if o.SSLMode {
		sslmode = "enable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.DBUser, o.Password, o.DBName, sslmode,
	)
}

// Pool owns the database connections for the process. It is constructed
// once by the entry point and handed to the repositories that need it.
// All methods are safe for concurrent use.
type Pool struct {
	mu sync.Mutex
	db *gorm.DB
}

func NewPool() *Pool {
	return &Pool{}
}

// Initialize opens the connection and configures the pool bounds. Calling
// it again while initialized is a no-op; the second call is logged and
// succeeds. A failed connection attempt leaves the pool uninitialized.
func (p *Pool) Initialize(opts Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		slog.Warn("connection pool already initialized, skipping")
		return nil
	}

	minConns := opts.MinConns
	if minConns <= 0 {
		minConns = 2
	}
	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}

	db, err := gorm.Open(postgres.Open(opts.datasource()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(minConns)
	sqlDB.SetMaxOpenConns(maxConns)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	p.db = db
	slog.Info("initialized database connection pool", "min", minConns, "max", maxConns)
	return nil
}

// DB returns the shared database handle. Statements run through it check
// a connection out of the pool and return it when the result is consumed.
func (p *Pool) DB() (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil, ErrNotInitialized
	}
	return p.db, nil
}

// Acquire checks a single raw connection out of the pool. The caller must
// hand it back with Release.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	sqlDB, err := p.sqlDB()
	if err != nil {
		return nil, err
	}
	return sqlDB.Conn(ctx)
}

// Release returns a connection obtained from Acquire.
func (p *Pool) Release(conn *sql.Conn) error {
	p.mu.Lock()
	initialized := p.db != nil
	p.mu.Unlock()

	if !initialized {
		return ErrNotInitialized
	}
	return conn.Close()
}

// Shutdown closes every connection. Initialize must be called again
// before the pool can be used.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}

	sqlDB, err := p.db.DB()
	p.db = nil
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		return err
	}
	slog.Info("closed database connection pool")
	return nil
}

func (p *Pool) sqlDB() (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil, ErrNotInitialized
	}
	return p.db.DB()
}

// NewConnection opens a standalone gorm connection outside of any Pool.
// Used by the migration runner and tests.
func NewConnection(opts Options) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(opts.datasource()), &gorm.Config{})
}
