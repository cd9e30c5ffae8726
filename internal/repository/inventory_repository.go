package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/org-services/internal/domain"
)

// InventoryRepository reads and writes stock levels.
type InventoryRepository interface {
	GetBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
	Upsert(ctx context.Context, item *domain.InventoryItem) error
}

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns a Postgres-backed implementation.
func NewInventoryRepository(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepository{pool: pool}
}

func (r *inventoryRepository) GetBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	const query = `
        SELECT id, sku_code, quantity, updated_at
        FROM inventory WHERE sku_code=$1`
	var item domain.InventoryItem
	if err := r.pool.QueryRow(ctx, query, sku).Scan(
		&item.ID,
		&item.SKUCode,
		&item.Quantity,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) Upsert(ctx context.Context, item *domain.InventoryItem) error {
	const query = `
        INSERT INTO inventory (sku_code, quantity)
        VALUES ($1, $2)
        ON CONFLICT (sku_code) DO UPDATE SET quantity=EXCLUDED.quantity, updated_at=NOW()
        RETURNING id, updated_at`
	err := r.pool.QueryRow(ctx, query, item.SKUCode, item.Quantity).Scan(&item.ID, &item.UpdatedAt)
	return mapPostgresError(err)
}
