package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/segyhp/autoorder-engine/internal/logger"
	"github.com/segyhp/autoorder-engine/internal/repository"
	"github.com/segyhp/autoorder-engine/internal/service"
	"github.com/segyhp/autoorder-engine/pkg/clock"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"
)

var handlerNow = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router    http.Handler
	scheduler *service.SchedulerService
	store     *repository.Store
}

func newTestServer(t *testing.T, authorized func(*http.Request) bool) *testServer {
	t.Helper()

	clk := clock.NewFake(handlerNow)
	store := repository.NewMemoryStore(repository.DefaultSuppliers()...)
	orders := service.NewOrderService(store.Orders, store.Suppliers, decimal.NewFromInt(5000), clk.Now, logger.Discard())
	scheduler := service.NewSchedulerService(store.Schedules, orders, clk, time.UTC, logger.Discard())

	router := NewRouter(
		NewScheduleHandler(scheduler),
		NewOrderHandler(scheduler, orders, 50),
		NewHealthHandler(store, store.Driver, time.Second),
		authorized,
		logger.Discard(),
	)

	return &testServer{router: router, scheduler: scheduler, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestScheduleHandler_CreateSchedule(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   string
		checkResponse  func(*testing.T, *domain.Schedule)
	}{
		{
			name: "creates a weekly schedule",
			requestBody: map[string]interface{}{
				"name":         "Weekly LEDs",
				"supplier_id":  "1",
				"amount":       "1250.50",
				"recurrence":   map[string]interface{}{"type": "weekly"},
				"first_run_at": handlerNow.Add(time.Hour).Format(time.RFC3339),
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, schedule *domain.Schedule) {
				assert.Equal(t, "Weekly LEDs", schedule.Name)
				assert.Equal(t, domain.Weekly(), schedule.Recurrence)
				assert.True(t, schedule.Amount.Equal(decimal.RequireFromString("1250.50")))
				assert.True(t, schedule.Enabled)
				assert.True(t, schedule.NextRunAt.Equal(handlerNow.Add(time.Hour)))
			},
		},
		{
			name: "rejects an unknown recurrence",
			requestBody: map[string]interface{}{
				"amount":       "10",
				"recurrence":   map[string]interface{}{"type": "hourly"},
				"first_run_at": handlerNow.Format(time.RFC3339),
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeInvalidRecurrence,
		},
		{
			name: "rejects a negative amount",
			requestBody: map[string]interface{}{
				"amount":       "-5",
				"recurrence":   map[string]interface{}{"type": "daily"},
				"first_run_at": handlerNow.Format(time.RFC3339),
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name: "rejects a missing first run",
			requestBody: map[string]interface{}{
				"amount":     "5",
				"recurrence": map[string]interface{}{"type": "daily"},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   customError.ErrCodeValidation,
		},
		{
			name:           "rejects malformed JSON",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			w, env := srv.do(t, http.MethodPost, "/api/v1/schedules", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, env.Code)
			}
			if tt.checkResponse != nil {
				var schedule domain.Schedule
				require.NoError(t, json.Unmarshal(env.Data, &schedule))
				tt.checkResponse(t, &schedule)
			}
		})
	}
}

func TestScheduleHandler_RunToggleDelete(t *testing.T) {
	srv := newTestServer(t, nil)
	supplierID := "1"
	schedule, err := srv.scheduler.CreateSchedule(context.Background(), &domain.CreateScheduleRequest{
		Name:       "Resistors",
		SupplierID: &supplierID,
		Amount:     decimal.NewFromInt(800),
		Recurrence: domain.Weekly(),
		FirstRunAt: handlerNow,
	})
	require.NoError(t, err)
	path := "/api/v1/schedules/" + schedule.ID.String()

	w, env := srv.do(t, http.MethodPost, path+"/run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result domain.RunNowResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Fired)
	require.NotNil(t, result.Order)
	assert.Equal(t, "VASUMATHI ELECTRONIC", result.Order.SupplierName)
	assert.True(t, result.Schedule.NextRunAt.Equal(handlerNow.AddDate(0, 0, 7)))

	w, env = srv.do(t, http.MethodPost, path+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled domain.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.Enabled)

	w, env = srv.do(t, http.MethodGet, "/api/v1/orders?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders domain.OrderListResponse
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders.Orders, 1)

	w, _ = srv.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = srv.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, customError.ErrCodeScheduleNotFound, env.Code)
}

func TestScheduleHandler_RunUnknownSchedule(t *testing.T) {
	srv := newTestServer(t, nil)

	w, env := srv.do(t, http.MethodPost, "/api/v1/schedules/"+uuid.NewString()+"/run", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, customError.ErrCodeScheduleNotFound, env.Code)

	w, _ = srv.do(t, http.MethodPost, "/api/v1/schedules/not-a-uuid/run", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_QuickOrderAndSuppliers(t *testing.T) {
	srv := newTestServer(t, nil)

	w, env := srv.do(t, http.MethodPost, "/api/v1/orders/quick", map[string]interface{}{
		"supplier_id": "2",
		"amount":      "120",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order domain.GeneratedOrder
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Nil(t, order.ScheduleID)
	assert.Equal(t, "TechParts Supply Co.", order.SupplierName)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	w, _ = srv.do(t, http.MethodGet, "/api/v1/orders?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = srv.do(t, http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var suppliers []domain.Supplier
	require.NoError(t, json.Unmarshal(env.Data, &suppliers))
	assert.Len(t, suppliers, 3)
}

func TestRouter_AuthorizationHook(t *testing.T) {
	srv := newTestServer(t, func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer store-owner"
	})

	w, _ := srv.do(t, http.MethodGet, "/api/v1/schedules", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_Ready(t *testing.T) {
	srv := newTestServer(t, nil)
	w, _ := srv.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	h := NewHealthHandler(failingPinger{}, "postgres", time.Second)
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
