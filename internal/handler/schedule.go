package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/segyhp/autoorder-engine/internal/service"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"
	"github.com/segyhp/autoorder-engine/pkg/response"
)

type ScheduleHandler struct {
	service   *service.SchedulerService
	validator *validator.Validate
}

func NewScheduleHandler(service *service.SchedulerService) *ScheduleHandler {
	return &ScheduleHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreateSchedule handles POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", validationError(err))
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, schedule)
}

// ListSchedules handles GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListSchedules(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.ScheduleListResponse{Schedules: schedules})
}

// GetSchedule handles GET /api/v1/schedules/{id}
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, schedule)
}

// ToggleSchedule handles POST /api/v1/schedules/{id}/toggle
func (h *ScheduleHandler) ToggleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.ToggleEnabled(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, schedule)
}

// RunSchedule handles POST /api/v1/schedules/{id}/run
func (h *ScheduleHandler) RunSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	result, err := h.service.RunNow(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// DeleteSchedule handles DELETE /api/v1/schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSchedule(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func scheduleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "Invalid schedule ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func validationError(err error) error {
	return customError.NewBusinessError(customError.ErrCodeValidation, "Request validation failed", err)
}
