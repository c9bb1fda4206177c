package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// Schedule is a stored instruction to generate an order once or on a
// recurring cadence.
type Schedule struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	SupplierID  *string         `json:"supplier_id,omitempty" db:"supplier_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Recurrence  RecurrenceRule  `json:"recurrence" db:"recurrence"`
	Enabled     bool            `json:"enabled" db:"enabled"`
	FirstRunAt  time.Time       `json:"first_run_at" db:"first_run_at"`
	NextRunAt   time.Time       `json:"next_run_at" db:"next_run_at"`
	LastFiredAt *time.Time      `json:"last_fired_at,omitempty" db:"last_fired_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the scheduler loop should fire s at now.
func (s *Schedule) IsDue(now time.Time) bool {
	return s.Enabled && utils.IsDue(s.NextRunAt, now)
}

// Clone returns a deep copy so stores never share pointers with callers.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	c := *s
	if s.SupplierID != nil {
		id := *s.SupplierID
		c.SupplierID = &id
	}
	if s.LastFiredAt != nil {
		at := *s.LastFiredAt
		c.LastFiredAt = &at
	}
	return &c
}

// DTOs for requests and responses

type CreateScheduleRequest struct {
	Name       string          `json:"name" validate:"max=200"`
	SupplierID *string         `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount" validate:"gte=0"`
	Recurrence RecurrenceRule  `json:"recurrence"`
	FirstRunAt time.Time       `json:"first_run_at" validate:"required"`
}

type ScheduleListResponse struct {
	Schedules []*Schedule `json:"schedules"`
}

type RunNowResponse struct {
	Schedule *Schedule      `json:"schedule"`
	Order    *GeneratedOrder `json:"order,omitempty"`
	Fired    bool           `json:"fired"`
}
