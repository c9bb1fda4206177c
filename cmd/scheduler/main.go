package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/segyhp/autoorder-engine/internal/config"
	"github.com/segyhp/autoorder-engine/internal/logger"
	"github.com/segyhp/autoorder-engine/internal/repository"
	"github.com/segyhp/autoorder-engine/internal/scheduler"
	"github.com/segyhp/autoorder-engine/internal/service"
	"github.com/segyhp/autoorder-engine/pkg/clock"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Starting auto-order scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)

	store, err := repository.Open(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	defer store.Close()

	clk := clock.Real{}
	orderService := service.NewOrderService(store.Orders, store.Suppliers, cfg.GetAutoApproveThreshold(), clk.Now, log)
	schedulerService := service.NewSchedulerService(store.Schedules, orderService, clk, cfg.GetSchedulerLocation(), log)

	runner, err := scheduler.NewRunner(schedulerService, cfg.GetSchedulerInterval(), log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create scheduler")
	}

	// Catch up on anything that fell due while the process was down
	if _, err := schedulerService.Tick(context.Background()); err != nil {
		log.WithError(err).Warn("Initial tick finished with errors")
	}

	runner.Start()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.StopTimeout)
	defer cancel()

	if err := runner.Stop(ctx); err != nil {
		log.WithError(err).Error("Scheduler did not stop in time")
	}
	log.Info("Scheduler stopped")
}
