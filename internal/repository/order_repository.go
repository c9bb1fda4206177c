package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.GeneratedOrder) error {
	query := r.db.Rebind(`
		INSERT INTO generated_orders (id, order_number, schedule_id, supplier_id, supplier_name, amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.ScheduleID,
		order.SupplierID,
		order.SupplierName,
		order.Amount,
		order.Status,
		order.CreatedAt,
	)

	return err
}

func (r *orderRepository) List(ctx context.Context, limit int) ([]*domain.GeneratedOrder, error) {
	if limit <= 0 {
		return []*domain.GeneratedOrder{}, nil
	}

	query := r.db.Rebind(`
		SELECT id, order_number, schedule_id, supplier_id, supplier_name, amount, status, created_at
		FROM generated_orders
		ORDER BY created_at DESC
		LIMIT ?
	`)

	var orders []*domain.GeneratedOrder
	if err := r.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM generated_orders WHERE id = ?`)

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
