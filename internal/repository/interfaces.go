package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
)

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	// List returns every stored schedule
	List(ctx context.Context) ([]*domain.Schedule, error)

	// Get retrieves a schedule by ID, returning ErrScheduleNotFound when absent
	Get(ctx context.Context, id uuid.UUID) (*domain.Schedule, error)

	// Upsert inserts the schedule or replaces the stored copy
	Upsert(ctx context.Context, schedule *domain.Schedule) error

	// Delete removes a schedule, returning ErrScheduleNotFound when absent
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for the generated order ledger
type OrderRepository interface {
	// Create appends an order to the ledger
	Create(ctx context.Context, order *domain.GeneratedOrder) error

	// List returns the most recent orders first, at most limit of them
	List(ctx context.Context, limit int) ([]*domain.GeneratedOrder, error)

	// Delete removes an order that was recorded by a firing that could not be
	// completed
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository is a read-only view of the supplier directory
type SupplierRepository interface {
	// GetByID returns ErrSupplierNotFound when the supplier is unknown
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)

	List(ctx context.Context) ([]*domain.Supplier, error)
}

// Pinger is implemented by backends that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}
