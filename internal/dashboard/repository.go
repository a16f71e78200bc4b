package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const selectSales = `SELECT s.id, s.sale_price::float8, s.sale_date,
       i.id IS NOT NULL, COALESCE(i.model, ''), i.screen_size, COALESCE(i.purchase_cost, 0)::float8, sp.name,
       c.name
FROM sales s
LEFT JOIN inventory_items i ON i.id = s.item_id
LEFT JOIN suppliers sp ON sp.id = i.supplier_id
LEFT JOIN customers c ON c.id = s.customer_id
WHERE ($1::date IS NULL OR s.sale_date >= $1::date)
  AND ($2::date IS NULL OR s.sale_date <= $2::date)
ORDER BY s.sale_date, s.created_at`

const selectItems = `SELECT id, model, status, purchase_cost::float8, purchase_date
FROM inventory_items
ORDER BY purchase_date, created_at`

// Repository reads dashboard inputs from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SalesBetween returns sales with sale_date inside [from, to]. Nil bounds are open.
func (r *Repository) SalesBetween(ctx context.Context, from, to *time.Time) ([]SaleRecord, error) {
	rows, err := r.pool.Query(ctx, selectSales, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaleRecord
	for rows.Next() {
		var (
			rec          SaleRecord
			hasItem      bool
			item         ItemRef
			customerName *string
		)
		if err := rows.Scan(&rec.ID, &rec.SalePrice, &rec.SaleDate,
			&hasItem, &item.Model, &item.ScreenSize, &item.PurchaseCost, &item.SupplierName,
			&customerName); err != nil {
			return nil, err
		}
		if hasItem {
			rec.Item = &item
		}
		if customerName != nil {
			rec.Customer = &CustomerRef{Name: *customerName}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Items returns every inventory item; the snapshot filters to in-stock.
func (r *Repository) Items(ctx context.Context) ([]ItemRecord, error) {
	rows, err := r.pool.Query(ctx, selectItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemRecord
	for rows.Next() {
		var it ItemRecord
		if err := rows.Scan(&it.ID, &it.Model, &it.Status, &it.PurchaseCost, &it.PurchaseDate); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
