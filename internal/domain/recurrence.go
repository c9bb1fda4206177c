package domain

import (
	"fmt"
	"strings"
	"time"

	customError "github.com/segyhp/autoorder-engine/pkg/errors"
	"github.com/segyhp/autoorder-engine/pkg/utils"
)

type RecurrenceKind string

const (
	RecurrenceOnce       RecurrenceKind = "once"
	RecurrenceDaily      RecurrenceKind = "daily"
	RecurrenceWeekly     RecurrenceKind = "weekly"
	RecurrenceMonthly    RecurrenceKind = "monthly"
	RecurrenceEveryNDays RecurrenceKind = "every_n_days"
)

// RecurrenceRule is the repetition cadence of a schedule. N is only read for
// RecurrenceEveryNDays.
type RecurrenceRule struct {
	Kind RecurrenceKind `json:"type" db:"kind"`
	N    int            `json:"n,omitempty" db:"n"`
}

func Once() RecurrenceRule    { return RecurrenceRule{Kind: RecurrenceOnce} }
func Daily() RecurrenceRule   { return RecurrenceRule{Kind: RecurrenceDaily} }
func Weekly() RecurrenceRule  { return RecurrenceRule{Kind: RecurrenceWeekly} }
func Monthly() RecurrenceRule { return RecurrenceRule{Kind: RecurrenceMonthly} }

func EveryNDays(n int) RecurrenceRule {
	return RecurrenceRule{Kind: RecurrenceEveryNDays, N: n}
}

// ParseRecurrence builds a rule from its wire name. "every_n" is accepted as
// an alias of "every_n_days". A non-positive n is floored to 1.
func ParseRecurrence(kind string, n int) (RecurrenceRule, error) {
	switch RecurrenceKind(strings.ToLower(strings.TrimSpace(kind))) {
	case RecurrenceOnce, "":
		return Once(), nil
	case RecurrenceDaily:
		return Daily(), nil
	case RecurrenceWeekly:
		return Weekly(), nil
	case RecurrenceMonthly:
		return Monthly(), nil
	case RecurrenceEveryNDays, "every_n":
		return EveryNDays(n).Normalize(), nil
	default:
		return RecurrenceRule{}, customError.WrapInvalidRecurrence(kind, n)
	}
}

// Normalize applies the n >= 1 floor for every-n-days rules.
func (r RecurrenceRule) Normalize() RecurrenceRule {
	if r.Kind == RecurrenceEveryNDays && r.N <= 0 {
		r.N = 1
	}
	if r.Kind != RecurrenceEveryNDays {
		r.N = 0
	}
	return r
}

// Validate reports ErrInvalidRecurrence for kinds the calculator does not know.
func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RecurrenceOnce, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceEveryNDays:
		return nil
	default:
		return customError.WrapInvalidRecurrence(string(r.Kind), r.N)
	}
}

func (r RecurrenceRule) IsOnce() bool {
	return r.Kind == RecurrenceOnce
}

func (r RecurrenceRule) String() string {
	if r.Kind == RecurrenceEveryNDays {
		return fmt.Sprintf("every %d days", r.Normalize().N)
	}
	return string(r.Kind)
}

// ComputeNextRun returns the run following lastRunAt under rule. Calendar
// arithmetic happens in lastRunAt's location. Once and unknown kinds return
// lastRunAt unchanged; the caller disables once-schedules instead.
func ComputeNextRun(lastRunAt time.Time, rule RecurrenceRule) time.Time {
	rule = rule.Normalize()

	switch rule.Kind {
	case RecurrenceDaily:
		return utils.AddDays(lastRunAt, 1)
	case RecurrenceWeekly:
		return utils.AddDays(lastRunAt, 7)
	case RecurrenceMonthly:
		return utils.AddMonthsClamped(lastRunAt, 1)
	case RecurrenceEveryNDays:
		return utils.AddDays(lastRunAt, rule.N)
	default:
		return lastRunAt
	}
}
