package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezkam/taskdesk/internal/application/auth"
	"github.com/rezkam/taskdesk/internal/application/profile"
	"github.com/rezkam/taskdesk/internal/application/task"
	"github.com/rezkam/taskdesk/internal/application/team"
)

// dbtx is the query surface shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides the PostgreSQL implementation of all repository interfaces.
//
// This store implements:
// - application/auth.Repository (API keys and the workers they act for)
// - application/task.Repository (task listing, the filter lookups and task writes)
// - application/profile.Repository (dashboard aggregates)
// - application/team.Repository (positions, task types and workers)
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
}

// Compile-time verification that Store implements all repository interfaces.
var (
	_ auth.Repository    = (*Store)(nil)
	_ task.Repository    = (*Store)(nil)
	_ profile.Repository = (*Store)(nil)
	_ team.Repository    = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// finalizeTx handles transaction cleanup for normal error/success cases.
// Rolls back on error, commits on success.
// Note: Panics are handled separately in the defer blocks before finalizeTx is called.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back",
			"error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
	} else {
		*err = tx.Commit(ctx)
		if *err != nil {
			slog.ErrorContext(ctx, "transaction commit failed",
				"error", *err)
		}
	}
}

// executeInTransaction runs fn against a transaction-bound Store with logging and panic recovery.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, opts pgx.TxOptions, fn func(txStore *Store) error) (err error) {
	if _, inTx := s.db.(pgx.Tx); inTx {
		return fn(s)
	}

	start := time.Now().UTC()

	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"panic", p,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	err = fn(&Store{pool: s.pool, db: tx})
	return
}

// snapshot executes fn within a read-only REPEATABLE READ transaction so every
// query inside sees the same data.
func (s *Store) snapshot(ctx context.Context, operationName string, fn func(txStore *Store) error) error {
	return s.executeInTransaction(ctx, operationName, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}
