package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/segyhp/autoorder-engine/internal/repository"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"
	"github.com/segyhp/autoorder-engine/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderSink records generated orders. VoidOrder removes an order that was
// created for a firing whose schedule update could not be persisted.
type OrderSink interface {
	CreateOrder(ctx context.Context, request domain.CreateOrderRequest) (*domain.GeneratedOrder, error)
	VoidOrder(ctx context.Context, orderID uuid.UUID) error
}

type OrderService struct {
	OrderRepo    repository.OrderRepository
	SupplierRepo repository.SupplierRepository

	autoApproveThreshold decimal.Decimal
	now                  func() time.Time
	log                  logrus.FieldLogger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	autoApproveThreshold decimal.Decimal,
	now func() time.Time,
	log logrus.FieldLogger,
) *OrderService {
	return &OrderService{
		OrderRepo:            orderRepo,
		SupplierRepo:         supplierRepo,
		autoApproveThreshold: autoApproveThreshold,
		now:                  now,
		log:                  log,
	}
}

// CreateOrder resolves the supplier name, assigns an order number and status,
// and appends the order to the ledger.
func (s *OrderService) CreateOrder(ctx context.Context, request domain.CreateOrderRequest) (*domain.GeneratedOrder, error) {
	if request.Amount.IsNegative() {
		return nil, customError.WrapInvalidAmount(request.Amount.String())
	}

	createdAt := s.now()
	id := uuid.New()

	order := &domain.GeneratedOrder{
		ID:           id,
		OrderNumber:  utils.GenerateOrderNumber(domain.OrderNumberPrefix, id, createdAt),
		ScheduleID:   request.ScheduleID,
		SupplierID:   request.SupplierID,
		SupplierName: s.supplierName(ctx, request.SupplierID),
		Amount:       request.Amount,
		Status:       s.statusFor(request.Amount),
		CreatedAt:    createdAt,
	}

	if err := s.OrderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"amount":       order.Amount.String(),
		"status":       order.Status,
	}).Info("order created")

	return order, nil
}

func (s *OrderService) VoidOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := s.OrderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.log.WithField("order_id", orderID).Warn("order voided")
	return nil
}

// ListOrders returns the newest orders first.
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]*domain.GeneratedOrder, error) {
	orders, err := s.OrderRepo.List(ctx, limit)
	if err != nil {
		return nil, customError.WrapStoreUnavailable("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers, err := s.SupplierRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapStoreUnavailable("list suppliers", err)
	}
	return suppliers, nil
}

func (s *OrderService) statusFor(amount decimal.Decimal) string {
	if amount.LessThanOrEqual(s.autoApproveThreshold) {
		return domain.OrderStatusPending
	}
	return domain.OrderStatusDraft
}

func (s *OrderService) supplierName(ctx context.Context, supplierID *string) string {
	if supplierID == nil || *supplierID == "" {
		return domain.DefaultSupplierName
	}

	supplier, err := s.SupplierRepo.GetByID(ctx, *supplierID)
	if err != nil {
		if !errors.Is(err, customError.ErrSupplierNotFound) {
			s.log.WithError(err).WithField("supplier_id", *supplierID).Warn("supplier lookup failed")
		}
		return domain.DefaultSupplierName
	}

	return supplier.Name
}
