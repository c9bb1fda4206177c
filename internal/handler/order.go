package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/segyhp/autoorder-engine/internal/service"
	"github.com/segyhp/autoorder-engine/pkg/response"
)

type OrderHandler struct {
	scheduler    *service.SchedulerService
	orders       *service.OrderService
	historyLimit int
	validator    *validator.Validate
}

// NewOrderHandler serves the order ledger. historyLimit caps how many orders
// a single list request may return.
func NewOrderHandler(scheduler *service.SchedulerService, orders *service.OrderService, historyLimit int) *OrderHandler {
	return &OrderHandler{
		scheduler:    scheduler,
		orders:       orders,
		historyLimit: historyLimit,
		validator:    newValidator(),
	}
}

// QuickOrder handles POST /api/v1/orders/quick
func (h *OrderHandler) QuickOrder(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", validationError(err))
		return
	}

	order, err := h.scheduler.QuickOrder(r.Context(), request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, order)
}

// ListOrders handles GET /api/v1/orders?limit=N
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(w, "limit must be a positive integer", err)
			return
		}
		if n < limit {
			limit = n
		}
	}

	orders, err := h.orders.ListOrders(r.Context(), limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.OrderListResponse{Orders: orders})
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *OrderHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.orders.ListSuppliers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, suppliers)
}
