package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/autoorder-engine/internal/config"
	"github.com/segyhp/autoorder-engine/internal/handler"
	"github.com/segyhp/autoorder-engine/internal/logger"
	"github.com/segyhp/autoorder-engine/internal/repository"
	"github.com/segyhp/autoorder-engine/internal/scheduler"
	"github.com/segyhp/autoorder-engine/internal/service"
	"github.com/segyhp/autoorder-engine/pkg/clock"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)

	// Initialize storage
	store, err := repository.Open(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	defer store.Close()

	log.WithFields(logrus.Fields{
		"env":       cfg.Server.Env,
		"storage":   store.Driver,
		"scheduler": cfg.Scheduler.Enabled,
	}).Info("Configuration loaded")
	if cfg.IsProduction() && store.Driver == config.DriverMemory {
		log.Warn("Memory storage loses schedules and orders on restart")
	}

	// Initialize services
	clk := clock.Real{}
	orderService := service.NewOrderService(store.Orders, store.Suppliers, cfg.GetAutoApproveThreshold(), clk.Now, log)
	schedulerService := service.NewSchedulerService(store.Schedules, orderService, clk, cfg.GetSchedulerLocation(), log)

	router := handler.NewRouter(
		handler.NewScheduleHandler(schedulerService),
		handler.NewOrderHandler(schedulerService, orderService, cfg.Business.OrderHistoryLimit),
		handler.NewHealthHandler(store, store.Driver, cfg.GetHealthTimeout()),
		nil,
		log,
	)

	// Embedded scheduler runner
	var runner *scheduler.Runner
	if cfg.Scheduler.Enabled {
		runner, err = scheduler.NewRunner(schedulerService, cfg.GetSchedulerInterval(), log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create scheduler")
		}
		runner.Start()
	}

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if runner != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Scheduler.StopTimeout)
		defer stopCancel()
		if err := runner.Stop(stopCtx); err != nil {
			log.WithError(err).Error("Scheduler did not stop in time")
		}
	}

	log.Info("Server exited")
}
