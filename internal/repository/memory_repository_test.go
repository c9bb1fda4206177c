package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchedule(name string, nextRunAt time.Time) *domain.Schedule {
	return &domain.Schedule{
		ID:         uuid.New(),
		Name:       name,
		Amount:     decimal.NewFromInt(4500),
		Recurrence: domain.Daily(),
		Enabled:    true,
		FirstRunAt: nextRunAt,
		NextRunAt:  nextRunAt,
		CreatedAt:  nextRunAt,
		UpdatedAt:  nextRunAt,
	}
}

func TestMemoryScheduleRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepository()
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	later := newTestSchedule("later", base.Add(2*time.Hour))
	sooner := newTestSchedule("sooner", base)

	require.NoError(t, repo.Upsert(ctx, later))
	require.NoError(t, repo.Upsert(ctx, sooner))

	schedules, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, "sooner", schedules[0].Name)
	assert.Equal(t, "later", schedules[1].Name)

	got, err := repo.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, later.Name, got.Name)

	// the store keeps its own copy
	got.Name = "mutated"
	again, err := repo.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, "later", again.Name)

	later.Enabled = false
	require.NoError(t, repo.Upsert(ctx, later))
	again, err = repo.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.False(t, again.Enabled)

	require.NoError(t, repo.Delete(ctx, later.ID))
	_, err = repo.Get(ctx, later.ID)
	assert.ErrorIs(t, err, customError.ErrScheduleNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, later.ID), customError.ErrScheduleNotFound)
}

func TestMemoryOrderRepository_NewestFirstAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		order := &domain.GeneratedOrder{
			ID:        uuid.New(),
			Amount:    decimal.NewFromInt(int64(100 * (i + 1))),
			Status:    domain.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		ids = append(ids, order.ID)
		require.NoError(t, repo.Create(ctx, order))
	}

	orders, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)

	require.NoError(t, repo.Delete(ctx, ids[2]))
	orders, err = repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[1], orders[0].ID)
}

func TestMemorySupplierRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySupplierRepository(DefaultSuppliers()...)

	supplier, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "VASUMATHI ELECTRONIC", supplier.Name)
	assert.False(t, supplier.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, "404")
	assert.ErrorIs(t, err, customError.ErrSupplierNotFound)

	suppliers, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 3)
	assert.Equal(t, "Global Components Ltd.", suppliers[0].Name)
}

func TestMemoryStore_Ping(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
