// Package sqlite backs ormlite.StorageTransaction with a single-file
// modernc.org/sqlite database.
//
// Each call to Begin acquires a dedicated *sql.Conn and issues a raw
// BEGIN IMMEDIATE, retried with exponential backoff on SQLITE_BUSY: the
// same pattern the pruned reference storage layer uses for every writer
// transaction.
// A dedicated connection is required because database/sql's pool would
// otherwise hand the COMMIT/ROLLBACK statements to a different underlying
// connection than the one that started the transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"

	"github.com/kelvindb/ormlite"
)

// Backend owns a *sql.DB against one sqlite file and hands out
// transactions over it.
type Backend struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Backend at Open time.
type Option func(*Backend)

// WithLogger attaches a logger for retry diagnostics. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) { b.logger = logger }
}

// Open opens (creating if absent) the sqlite database at path.
func Open(path string, opts ...Option) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ormlite/sqlite: open %s: %w", path, err)
	}
	// A single writer connection at a time avoids SQLITE_BUSY storms from
	// this process's own pool; cross-process contention still goes
	// through beginImmediateWithRetry.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Begin starts a new transactional StorageTransaction.
func (b *Backend) Begin(ctx context.Context) (*Tx, error) {
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("ormlite/sqlite: acquire connection: %w", err)
	}

	if err := beginImmediateWithRetry(ctx, conn, b.logger); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Tx{conn: conn}, nil
}

// beginImmediateWithRetry issues BEGIN IMMEDIATE on conn, retrying with
// exponential backoff while the backend reports SQLITE_BUSY. IMMEDIATE
// acquires the write lock up front rather than at the first write,
// serializing concurrent writers instead of letting them race to a
// SQLITE_BUSY at commit time.
func beginImmediateWithRetry(ctx context.Context, conn *sql.Conn, logger *slog.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = 5 * time.Second

	attempt := 0
	op := func() error {
		attempt++
		_, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE")
		if err != nil && isBusyErr(err) {
			if logger != nil {
				logger.Debug("ormlite/sqlite: database busy, retrying", "attempt", attempt)
			}
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		if isBusyErr(err) {
			return ormlite.ErrLockConflict
		}
		return mapError(err, ormlite.Schema{})
	}
	return nil
}
