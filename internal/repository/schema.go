package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		average_delivery_days INT NOT NULL DEFAULT 7,
		rating NUMERIC(3,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS auto_order_schedules (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		supplier_id TEXT,
		amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
		recurrence_kind TEXT NOT NULL,
		recurrence_n INT NOT NULL DEFAULT 0,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		first_run_at TIMESTAMPTZ NOT NULL,
		next_run_at TIMESTAMPTZ NOT NULL,
		last_fired_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auto_order_schedules_due ON auto_order_schedules (enabled, next_run_at)`,
	`CREATE TABLE IF NOT EXISTS generated_orders (
		id UUID PRIMARY KEY,
		order_number TEXT NOT NULL,
		schedule_id UUID,
		supplier_id TEXT,
		supplier_name TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_orders_created ON generated_orders (created_at DESC)`,
}

// Amounts are TEXT in sqlite so NUMERIC affinity does not turn them into floats.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		average_delivery_days INTEGER NOT NULL DEFAULT 7,
		rating TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS auto_order_schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		supplier_id TEXT,
		amount TEXT NOT NULL,
		recurrence_kind TEXT NOT NULL,
		recurrence_n INTEGER NOT NULL DEFAULT 0,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		first_run_at DATETIME NOT NULL,
		next_run_at DATETIME NOT NULL,
		last_fired_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auto_order_schedules_due ON auto_order_schedules (enabled, next_run_at)`,
	`CREATE TABLE IF NOT EXISTS generated_orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL,
		schedule_id TEXT,
		supplier_id TEXT,
		supplier_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_orders_created ON generated_orders (created_at DESC)`,
}

// EnsureSchema creates the tables used by the sql repositories if they do not
// exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	ddl := postgresSchema
	if db.DriverName() == sqliteDriverName {
		ddl = sqliteSchema
	}

	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
