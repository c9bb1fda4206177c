package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/segyhp/autoorder-engine/internal/repository"
	"github.com/segyhp/autoorder-engine/pkg/clock"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// TickReport summarises one pass of the scheduler loop.
type TickReport struct {
	Now       time.Time
	Evaluated int
	Fired     int
	Skipped   bool
	Errors    []error
}

type SchedulerService struct {
	ScheduleRepo repository.ScheduleRepository
	Sink         OrderSink

	clock    clock.Clock
	location *time.Location
	log      logrus.FieldLogger

	locks  *keyedLock
	tickMu sync.Mutex
}

func NewSchedulerService(
	scheduleRepo repository.ScheduleRepository,
	sink OrderSink,
	clk clock.Clock,
	location *time.Location,
	log logrus.FieldLogger,
) *SchedulerService {
	if location == nil {
		location = time.UTC
	}

	return &SchedulerService{
		ScheduleRepo: scheduleRepo,
		Sink:         sink,
		clock:        clk,
		location:     location,
		log:          log,
		locks:        newKeyedLock(),
	}
}

// CreateSchedule stores a new enabled schedule whose first run is
// request.FirstRunAt.
func (s *SchedulerService) CreateSchedule(ctx context.Context, request *domain.CreateScheduleRequest) (*domain.Schedule, error) {
	if request.Amount.IsNegative() {
		return nil, customError.WrapInvalidAmount(request.Amount.String())
	}

	rule, err := domain.ParseRecurrence(string(request.Recurrence.Kind), request.Recurrence.N)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	name := strings.TrimSpace(request.Name)
	if name == "" {
		name = "Auto order " + now.In(s.location).Format("2006-01-02 15:04")
	}

	schedule := &domain.Schedule{
		ID:         uuid.New(),
		Name:       name,
		SupplierID: request.SupplierID,
		Amount:     request.Amount,
		Recurrence: rule,
		Enabled:    true,
		FirstRunAt: request.FirstRunAt,
		NextRunAt:  request.FirstRunAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.ScheduleRepo.Upsert(ctx, schedule); err != nil {
		return nil, customError.WrapStoreUnavailable("create schedule", err)
	}

	s.log.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"recurrence":  rule.String(),
		"next_run_at": schedule.NextRunAt,
	}).Info("schedule created")

	return schedule, nil
}

func (s *SchedulerService) GetSchedule(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	schedule, err := s.ScheduleRepo.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("get schedule", id, err)
	}
	return schedule, nil
}

func (s *SchedulerService) ListSchedules(ctx context.Context) ([]*domain.Schedule, error) {
	schedules, err := s.ScheduleRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStoreUnavailable("list schedules", err)
	}
	return schedules, nil
}

// ToggleEnabled flips the enabled flag and returns the updated schedule.
func (s *SchedulerService) ToggleEnabled(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	schedule, err := s.ScheduleRepo.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("toggle schedule", id, err)
	}

	schedule.Enabled = !schedule.Enabled
	schedule.UpdatedAt = s.clock.Now()

	if err := s.ScheduleRepo.Upsert(ctx, schedule); err != nil {
		return nil, customError.WrapStoreUnavailable("toggle schedule", err)
	}

	s.log.WithFields(logrus.Fields{
		"schedule_id": id,
		"enabled":     schedule.Enabled,
	}).Info("schedule toggled")

	return schedule, nil
}

func (s *SchedulerService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.ScheduleRepo.Delete(ctx, id); err != nil {
		return s.storeError("delete schedule", id, err)
	}

	s.log.WithField("schedule_id", id).Info("schedule deleted")
	return nil
}

// RunNow fires one schedule immediately, outside the tick cadence. Disabled
// schedules fire too and stay disabled.
func (s *SchedulerService) RunNow(ctx context.Context, id uuid.UUID) (*domain.RunNowResponse, error) {
	schedule, order, err := s.fire(ctx, id, s.clock.Now(), true)
	if err != nil {
		return nil, err
	}

	return &domain.RunNowResponse{
		Schedule: schedule,
		Order:    order,
		Fired:    order != nil,
	}, nil
}

// QuickOrder places a one-off order that belongs to no schedule.
func (s *SchedulerService) QuickOrder(ctx context.Context, request domain.CreateOrderRequest) (*domain.GeneratedOrder, error) {
	request.ScheduleID = nil

	order, err := s.Sink.CreateOrder(ctx, request)
	if err != nil {
		return nil, sinkError(err)
	}
	return order, nil
}

// Tick fires every enabled schedule whose next run is at or before the
// current time. Failures are isolated per schedule and returned together.
// A tick that starts while another is running is skipped.
func (s *SchedulerService) Tick(ctx context.Context) (*TickReport, error) {
	if !s.tickMu.TryLock() {
		s.log.Debug("tick skipped, previous tick still running")
		return &TickReport{Skipped: true}, customError.ErrTickAlreadyRunning
	}
	defer s.tickMu.Unlock()

	now := s.clock.Now()
	report := &TickReport{Now: now}

	schedules, err := s.ScheduleRepo.List(ctx)
	if err != nil {
		return report, customError.WrapStoreUnavailable("list schedules", err)
	}

	due := make([]*domain.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.IsDue(now) {
			due = append(due, schedule)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextRunAt.Before(due[j].NextRunAt)
	})

	var errs error
	for _, schedule := range due {
		if ctx.Err() != nil {
			break
		}

		report.Evaluated++
		_, order, err := s.fire(ctx, schedule.ID, now, false)
		if err != nil {
			s.log.WithError(err).WithField("schedule_id", schedule.ID).Error("schedule firing failed")
			errs = multierr.Append(errs, err)
			continue
		}
		if order != nil {
			report.Fired++
		}
	}

	report.Errors = multierr.Errors(errs)

	s.log.WithFields(logrus.Fields{
		"tick":      now,
		"due":       len(due),
		"evaluated": report.Evaluated,
		"fired":     report.Fired,
		"failed":    len(report.Errors),
	}).Debug("tick finished")

	return report, errs
}

// fire runs the fire, advance and persist sequence for one schedule under
// its lock. The sequence is detached from ctx cancellation so a stop never
// leaves it half applied. When the schedule update cannot be persisted the
// created order is voided, which keeps the next tick from firing twice.
func (s *SchedulerService) fire(ctx context.Context, id uuid.UUID, now time.Time, manual bool) (*domain.Schedule, *domain.GeneratedOrder, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	ctx = context.WithoutCancel(ctx)
	log := s.log.WithField("schedule_id", id)

	schedule, err := s.ScheduleRepo.Get(ctx, id)
	if err != nil {
		if !manual && errors.Is(err, customError.ErrScheduleNotFound) {
			// deleted since the tick listed it
			return nil, nil, nil
		}
		return nil, nil, s.storeError("get schedule", id, err)
	}

	// a manual run fires regardless of the enabled flag and of the due time
	if !manual && !schedule.IsDue(now) {
		return schedule, nil, nil
	}

	order, err := s.Sink.CreateOrder(ctx, domain.CreateOrderRequest{
		SupplierID: schedule.SupplierID,
		Amount:     schedule.Amount,
		ScheduleID: &schedule.ID,
	})
	if err != nil {
		return nil, nil, sinkError(err)
	}

	updated := schedule.Clone()
	if updated.Recurrence.IsOnce() {
		updated.Enabled = false
	} else {
		updated.NextRunAt = domain.ComputeNextRun(schedule.NextRunAt.In(s.location), schedule.Recurrence)
	}
	slot := schedule.NextRunAt
	updated.LastFiredAt = &slot
	updated.UpdatedAt = now

	if err := s.ScheduleRepo.Upsert(ctx, updated); err != nil {
		if voidErr := s.Sink.VoidOrder(ctx, order.ID); voidErr != nil {
			log.WithError(voidErr).WithField("order_id", order.ID).Error("could not void order after failed schedule update")
			err = multierr.Append(err, voidErr)
		}
		return nil, nil, customError.WrapStoreUnavailable("advance schedule", err)
	}

	log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"next_run_at": updated.NextRunAt,
		"enabled":     updated.Enabled,
		"manual":      manual,
	}).Info("schedule fired")

	return updated, order, nil
}

func (s *SchedulerService) storeError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, customError.ErrScheduleNotFound) {
		return customError.WrapScheduleNotFound(id.String())
	}
	return customError.WrapStoreUnavailable(op, err)
}

// sinkError keeps business errors raised by the sink (such as an invalid
// amount) and classifies everything else as an unavailable sink.
func sinkError(err error) error {
	if customError.Code(err) != "" {
		return err
	}
	return customError.WrapSinkUnavailable(err)
}
