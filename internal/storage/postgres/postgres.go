// Package postgres keeps the encounter outcome log in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/config"
)

// HealthTimeout bounds the reachability check Open performs.
const HealthTimeout = 5 * time.Second

// Store is a migrated outcome database: the connection pool plus the
// repositories built on it.
type Store struct {
	pool     *pgxpool.Pool
	outcomes *EncounterRepository
}

// Open migrates the schema described by cfg, connects, and verifies the
// database answers within HealthTimeout. An empty cfg.MigrationsDir applies
// the migrations embedded in the binary.
//
// Precondition: cfg.Host, cfg.Port, cfg.User and cfg.Name must be set.
// Postcondition: Returns a ready Store the caller must Close, or an error
// naming the step that failed; nothing is left open on error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	start := time.Now()
	if err := MigrateUp(cfg.DSN(), cfg.MigrationsDir); err != nil {
		return nil, err
	}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	s := &Store{pool: pool, outcomes: NewEncounterRepository(pool)}
	if err := s.Health(ctx, HealthTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}
	logger.Info("outcome store ready",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}

// poolConfig parses cfg into pool settings. Zero limits keep the pgx defaults.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	return pc, nil
}

// Outcomes returns the encounter outcome repository. It satisfies
// combat.OutcomeRecorder.
func (s *Store) Outcomes() *EncounterRepository { return s.outcomes }

// Health pings the database, giving up after timeout.
func (s *Store) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

// DB exposes the pool for ad hoc queries in tests and tools.
func (s *Store) DB() *pgxpool.Pool { return s.pool }

// Close releases the pool. The Store is unusable afterwards.
func (s *Store) Close() { s.pool.Close() }
