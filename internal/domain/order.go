package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "pending"
	OrderStatusDraft   = "draft"

	// DefaultSupplierName labels orders whose supplier cannot be resolved.
	DefaultSupplierName = "Supplier"
	OrderNumberPrefix   = "AUTO"
)

// GeneratedOrder is emitted each time a schedule fires or a quick order is
// placed. It is never mutated after creation.
type GeneratedOrder struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrderNumber  string          `json:"order_number" db:"order_number"`
	ScheduleID   *uuid.UUID      `json:"schedule_id,omitempty" db:"schedule_id"`
	SupplierID   *string         `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName string          `json:"supplier_name" db:"supplier_name"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Status       string          `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// CreateOrderRequest is what the scheduler hands to the order sink.
type CreateOrderRequest struct {
	SupplierID *string         `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
	ScheduleID *uuid.UUID      `json:"-"`
}

type OrderListResponse struct {
	Orders []*GeneratedOrder `json:"orders"`
}
