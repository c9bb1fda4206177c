package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/segyhp/autoorder-engine/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const (
	postgresDriverName = "postgres"
	sqliteDriverName   = "sqlite"
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Schedules ScheduleRepository
	Orders    OrderRepository
	Suppliers SupplierRepository

	// Driver is the configured backend name
	Driver string

	db    *sqlx.DB
	redis *redis.Client
}

// Open connects the configured backend and builds its repositories.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sqlx.ConnectContext(ctx, postgresDriverName, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		return newSQLStore(ctx, cfg.Storage.Driver, db)

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return nil, err
		}
		db, err := sqlx.ConnectContext(ctx, sqliteDriverName, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite prefers a single writer.
		db.SetMaxOpenConns(1)
		_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")
		return newSQLStore(ctx, cfg.Storage.Driver, db)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedisStore(client, cfg.Business.OrderHistoryLimit), nil

	case config.DriverMemory:
		return NewMemoryStore(DefaultSuppliers()...), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

func newSQLStore(ctx context.Context, driver string, db *sqlx.DB) (*Store, error) {
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{
		Schedules: NewScheduleRepository(db),
		Orders:    NewOrderRepository(db),
		Suppliers: NewSupplierRepository(db),
		Driver:    driver,
		db:        db,
	}, nil
}

// NewRedisStore builds the redis-backed repositories on an existing client.
func NewRedisStore(client *redis.Client, orderHistoryLimit int) *Store {
	return &Store{
		Schedules: NewRedisScheduleRepository(client),
		Orders:    NewRedisOrderRepository(client, orderHistoryLimit),
		Suppliers: NewRedisSupplierRepository(client),
		Driver:    config.DriverRedis,
		redis:     client,
	}
}

// Ping checks connectivity of the underlying backend. The memory backend is
// always reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.db != nil:
		return s.db.PingContext(ctx)
	case s.redis != nil:
		return s.redis.Ping(ctx).Err()
	default:
		return nil
	}
}

func (s *Store) Close() error {
	switch {
	case s.db != nil:
		return s.db.Close()
	case s.redis != nil:
		return s.redis.Close()
	default:
		return nil
	}
}
