package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/autoorder-engine/pkg/response"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the HTTP routes. authorized guards the /api/v1 routes and
// may be nil.
func NewRouter(
	scheduleHandler *ScheduleHandler,
	orderHandler *OrderHandler,
	healthHandler *HealthHandler,
	authorized func(*http.Request) bool,
	log logrus.FieldLogger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log), response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.AuthMiddleware(authorized))

	api.HandleFunc("/schedules", scheduleHandler.CreateSchedule).Methods("POST")
	api.HandleFunc("/schedules", scheduleHandler.ListSchedules).Methods("GET")
	api.HandleFunc("/schedules/{id}", scheduleHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/schedules/{id}", scheduleHandler.DeleteSchedule).Methods("DELETE")
	api.HandleFunc("/schedules/{id}/toggle", scheduleHandler.ToggleSchedule).Methods("POST")
	api.HandleFunc("/schedules/{id}/run", scheduleHandler.RunSchedule).Methods("POST")

	api.HandleFunc("/orders/quick", orderHandler.QuickOrder).Methods("POST")
	api.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	api.HandleFunc("/suppliers", orderHandler.ListSuppliers).Methods("GET")

	return router
}
