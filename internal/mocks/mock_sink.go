package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderSink struct {
	mock.Mock
}

func (m *MockOrderSink) CreateOrder(ctx context.Context, request domain.CreateOrderRequest) (*domain.GeneratedOrder, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedOrder), args.Error(1)
}

func (m *MockOrderSink) VoidOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
