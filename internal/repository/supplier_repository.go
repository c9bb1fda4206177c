package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/autoorder-engine/internal/domain"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type supplierRepository struct {
	db *sqlx.DB
}

func NewSupplierRepository(db *sqlx.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := r.db.Rebind(`
		SELECT id, name, average_delivery_days, rating, created_at
		FROM suppliers
		WHERE id = ?
	`)

	var supplier domain.Supplier
	err := r.db.GetContext(ctx, &supplier, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrSupplierNotFound
	}
	if err != nil {
		return nil, err
	}

	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, average_delivery_days, rating, created_at
		FROM suppliers
		ORDER BY name
	`

	var suppliers []*domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, err
	}

	return suppliers, nil
}
