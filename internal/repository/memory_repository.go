package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/config"
	"github.com/segyhp/autoorder-engine/internal/domain"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// NewMemoryStore builds process-local repositories, seeded with suppliers.
// Useful for tests and for running the engine without infrastructure.
func NewMemoryStore(suppliers ...*domain.Supplier) *Store {
	return &Store{
		Schedules: NewMemoryScheduleRepository(),
		Orders:    NewMemoryOrderRepository(),
		Suppliers: NewMemorySupplierRepository(suppliers...),
		Driver:    config.DriverMemory,
	}
}

// DefaultSuppliers is the directory the memory backend starts with.
func DefaultSuppliers() []*domain.Supplier {
	return []*domain.Supplier{
		{ID: "1", Name: "VASUMATHI ELECTRONIC", AverageDeliveryDays: 3, Rating: decimal.RequireFromString("4.6")},
		{ID: "2", Name: "TechParts Supply Co.", AverageDeliveryDays: 7, Rating: decimal.RequireFromString("4.2")},
		{ID: "3", Name: "Global Components Ltd.", AverageDeliveryDays: 5, Rating: decimal.RequireFromString("3.9")},
	}
}

type memoryScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*domain.Schedule
}

func NewMemoryScheduleRepository() ScheduleRepository {
	return &memoryScheduleRepository{schedules: make(map[uuid.UUID]*domain.Schedule)}
}

func (r *memoryScheduleRepository) List(ctx context.Context) ([]*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedules := make([]*domain.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		schedules = append(schedules, s.Clone())
	}

	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].NextRunAt.Equal(schedules[j].NextRunAt) {
			return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
		}
		return schedules[i].NextRunAt.Before(schedules[j].NextRunAt)
	})

	return schedules, nil
}

func (r *memoryScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[id]
	if !ok {
		return nil, customError.ErrScheduleNotFound
	}

	return s.Clone(), nil
}

func (r *memoryScheduleRepository) Upsert(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schedules[schedule.ID] = schedule.Clone()
	return nil
}

func (r *memoryScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[id]; !ok {
		return customError.ErrScheduleNotFound
	}
	delete(r.schedules, id)

	return nil
}

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.GeneratedOrder
}

func NewMemoryOrderRepository() OrderRepository {
	return &memoryOrderRepository{}
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *domain.GeneratedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := *order
	r.orders = append(r.orders, &o)
	return nil
}

func (r *memoryOrderRepository) List(ctx context.Context, limit int) ([]*domain.GeneratedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domain.GeneratedOrder, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0 && len(orders) < limit; i-- {
		o := *r.orders[i]
		orders = append(orders, &o)
	}

	return orders, nil
}

func (r *memoryOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}

	return nil
}

type memorySupplierRepository struct {
	suppliers map[string]*domain.Supplier
}

func NewMemorySupplierRepository(suppliers ...*domain.Supplier) SupplierRepository {
	r := &memorySupplierRepository{suppliers: make(map[string]*domain.Supplier, len(suppliers))}
	now := time.Now()
	for _, s := range suppliers {
		c := *s
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		r.suppliers[c.ID] = &c
	}
	return r
}

func (r *memorySupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, customError.ErrSupplierNotFound
	}

	c := *s
	return &c, nil
}

func (r *memorySupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers := make([]*domain.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		c := *s
		suppliers = append(suppliers, &c)
	}

	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })

	return suppliers, nil
}
