package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segyhp/autoorder-engine/internal/service"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Ticker is one pass of the scheduler loop.
type Ticker interface {
	Tick(ctx context.Context) (*service.TickReport, error)
}

// Runner drives a Ticker on a fixed interval.
type Runner struct {
	cron     *cron.Cron
	ticker   Ticker
	interval time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRunner(ticker Ticker, interval time.Duration, log logrus.FieldLogger) (*Runner, error) {
	cronLog := cronLogger{log: log}

	r := &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ticker:   ticker,
		interval: interval,
		log:      log,
	}

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", interval), r.tick); err != nil {
		return nil, fmt.Errorf("schedule tick every %s: %w", interval, err)
	}

	return r, nil
}

// Start begins ticking. Calling Start on a running Runner does nothing.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.cron.Start()
	r.running = true

	r.log.WithField("interval", r.interval.String()).Info("scheduler started")
}

// Stop cancels the timer and the current tick, then waits for the schedule
// being fired to finish or for ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.cancel()
	done := r.cron.Stop()
	r.mu.Unlock()

	select {
	case <-done.Done():
		r.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) tick() {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	report, err := r.ticker.Tick(ctx)
	switch {
	case errors.Is(err, customError.ErrTickAlreadyRunning):
		r.log.Debug("tick overlapped a running one")
	case err != nil && report != nil && len(report.Errors) > 0:
		r.log.WithField("failed", len(report.Errors)).Warn("tick finished with failures")
	case err != nil:
		r.log.WithError(err).Error("tick failed")
	}
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log logrus.FieldLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error("cron: " + msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
