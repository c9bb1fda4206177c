package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is owned by the supplier directory; schedules and orders only keep
// its ID.
type Supplier struct {
	ID                  string          `json:"id" db:"id"`
	Name                string          `json:"name" db:"name"`
	AverageDeliveryDays int             `json:"average_delivery_days" db:"average_delivery_days"`
	Rating              decimal.Decimal `json:"rating" db:"rating"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
