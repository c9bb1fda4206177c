package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const scheduleColumns = `
	id, name, supplier_id, amount,
	recurrence_kind AS "recurrence.kind", recurrence_n AS "recurrence.n",
	enabled, first_run_at, next_run_at, last_fired_at, created_at, updated_at
`

type scheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository returns a schedule store over postgres or sqlite.
// Queries are written with ? placeholders and rebound for the driver.
func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) List(ctx context.Context) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM auto_order_schedules ORDER BY next_run_at, created_at`

	var schedules []*domain.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	query := r.db.Rebind(`SELECT ` + scheduleColumns + ` FROM auto_order_schedules WHERE id = ?`)

	var schedule domain.Schedule
	err := r.db.GetContext(ctx, &schedule, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	return &schedule, nil
}

func (r *scheduleRepository) Upsert(ctx context.Context, schedule *domain.Schedule) error {
	query := r.db.Rebind(`
		INSERT INTO auto_order_schedules (
			id, name, supplier_id, amount, recurrence_kind, recurrence_n,
			enabled, first_run_at, next_run_at, last_fired_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			supplier_id = excluded.supplier_id,
			amount = excluded.amount,
			recurrence_kind = excluded.recurrence_kind,
			recurrence_n = excluded.recurrence_n,
			enabled = excluded.enabled,
			next_run_at = excluded.next_run_at,
			last_fired_at = excluded.last_fired_at,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.Name,
		schedule.SupplierID,
		schedule.Amount,
		string(schedule.Recurrence.Kind),
		schedule.Recurrence.N,
		schedule.Enabled,
		schedule.FirstRunAt,
		schedule.NextRunAt,
		schedule.LastFiredAt,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	return err
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM auto_order_schedules WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrScheduleNotFound
	}

	return nil
}
