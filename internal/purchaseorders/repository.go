package purchaseorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/shared"
)

const selectOrders = `SELECT po.id, po.number, po.supplier_id, s.code, s.name, po.order_date, po.expected_delivery_date,
       po.delivery_date, po.status, po.total_amount, po.notes, po.created_at, po.updated_at
FROM purchase_orders po
JOIN suppliers s ON s.id = po.supplier_id`

var sortColumns = map[string]string{
	"number":     "po.number",
	"order_date": "po.order_date",
	"status":     "po.status",
	"created_at": "po.created_at",
}

// Repository persists purchase orders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	var f db.Filter
	if filters.Search != "" {
		f.Where("po.number ILIKE " + f.Arg("%"+filters.Search+"%"))
	}
	if filters.Status != "" {
		f.Where("po.status = " + f.Arg(string(filters.Status)))
	}
	if filters.SupplierID != nil {
		f.Where("po.supplier_id = " + f.Arg(*filters.SupplierID))
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders po`+f.SQL(), f.Args()...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	lf := shared.ListFilters{Page: filters.Page, Limit: filters.Limit, SortDir: filters.SortDir}
	if filters.SortDir == "" {
		lf.SortDir = shared.SortDesc
	}
	query := selectOrders + f.SQL() +
		db.OrderBy(filters.SortBy, lf.Direction(), sortColumns, "po.order_date") +
		f.Page(lf.Limit, lf.Offset())

	rows, err := r.pool.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		po, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, po)
	}
	return out, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	po, err := scanOrder(r.pool.QueryRow(ctx, selectOrders+` WHERE po.id = $1`, id))
	if err != nil {
		return PurchaseOrder{}, db.MapError("purchase order", err)
	}
	return po, nil
}

// SupplierExists reports whether the supplier id resolves.
func (r *Repository) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM suppliers WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) Create(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `INSERT INTO purchase_orders
    (number, supplier_id, order_date, expected_delivery_date, delivery_date, status, total_amount, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
		po.Number, po.SupplierID, po.OrderDate, po.ExpectedDeliveryDate, po.DeliveryDate, string(po.Status), po.TotalAmount, po.Notes,
	).Scan(&id)
	if err != nil {
		return PurchaseOrder{}, db.MapError("purchase order", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE purchase_orders
SET number = $2, supplier_id = $3, order_date = $4, expected_delivery_date = $5, delivery_date = $6,
    status = $7, total_amount = $8, notes = $9, updated_at = NOW()
WHERE id = $1`,
		po.ID, po.Number, po.SupplierID, po.OrderDate, po.ExpectedDeliveryDate, po.DeliveryDate, string(po.Status), po.TotalAmount, po.Notes,
	)
	if err != nil {
		return PurchaseOrder{}, db.MapError("purchase order", err)
	}
	if tag.RowsAffected() == 0 {
		return PurchaseOrder{}, fmt.Errorf("purchase order %w", shared.ErrNotFound)
	}
	return r.Get(ctx, po.ID)
}

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	var status string
	err := row.Scan(&po.ID, &po.Number, &po.SupplierID, &po.SupplierCode, &po.SupplierName, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.DeliveryDate, &status, &po.TotalAmount, &po.Notes, &po.CreatedAt, &po.UpdatedAt)
	po.Status = Status(status)
	return po, err
}
