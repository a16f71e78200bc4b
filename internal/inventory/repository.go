package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/shared"
)

const selectItems = `SELECT i.id, i.item_id, i.supplier_id, s.code, s.name, i.supplier_item_number, i.purchase_order_id,
       i.model, i.screen_size, i.chip, i.ram, i.storage, i.year, i.condition_grade, i.condition_summary,
       i.purchase_cost::float8, i.purchase_date, i.status, i.sold_date, i.notes, i.created_at, i.updated_at
FROM inventory_items i
JOIN suppliers s ON s.id = i.supplier_id`

var sortColumns = map[string]string{
	"item_id":       "i.item_id",
	"model":         "i.model",
	"purchase_cost": "i.purchase_cost",
	"purchase_date": "i.purchase_date",
	"status":        "i.status",
	"created_at":    "i.created_at",
}

// Repository persists inventory items in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Item, int, error) {
	var f db.Filter
	if filters.Search != "" {
		p := f.Arg("%" + filters.Search + "%")
		f.Where("(i.item_id ILIKE " + p + " OR i.model ILIKE " + p + " OR i.chip ILIKE " + p + ")")
	}
	if filters.Status != "" {
		f.Where("i.status = " + f.Arg(string(filters.Status)))
	}
	if filters.SupplierID != nil {
		f.Where("i.supplier_id = " + f.Arg(*filters.SupplierID))
	}
	if filters.PurchaseOrderID != nil {
		f.Where("i.purchase_order_id = " + f.Arg(*filters.PurchaseOrderID))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items i`+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	lf := shared.ListFilters{Page: filters.Page, Limit: filters.Limit, SortDir: filters.SortDir}
	if filters.SortDir == "" {
		lf.SortDir = shared.SortDesc
	}
	query := selectItems + f.SQL() +
		db.OrderBy(filters.SortBy, lf.Direction(), sortColumns, "i.purchase_date") +
		f.Page(lf.Limit, lf.Offset())

	rows, err := r.pool.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	return out, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, selectItems+` WHERE i.id = $1`, id))
	if err != nil {
		return Item{}, db.MapError("inventory item", err)
	}
	return item, nil
}

// SupplierCode returns the code of a supplier.
func (r *Repository) SupplierCode(ctx context.Context, supplierID uuid.UUID) (string, error) {
	var code string
	err := r.pool.QueryRow(ctx, `SELECT code FROM suppliers WHERE id = $1`, supplierID).Scan(&code)
	if err != nil {
		return "", db.MapError("supplier", err)
	}
	return code, nil
}

// PurchaseOrderSupplier returns the supplier a purchase order belongs to.
func (r *Repository) PurchaseOrderSupplier(ctx context.Context, poID uuid.UUID) (uuid.UUID, error) {
	var supplierID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT supplier_id FROM purchase_orders WHERE id = $1`, poID).Scan(&supplierID)
	if err != nil {
		return uuid.Nil, db.MapError("purchase order", err)
	}
	return supplierID, nil
}

func (r *Repository) Create(ctx context.Context, item Item) (Item, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `INSERT INTO inventory_items
    (item_id, supplier_id, supplier_item_number, purchase_order_id, model, screen_size, chip, ram, storage, year,
     condition_grade, condition_summary, purchase_cost, purchase_date, status, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id`,
		item.ItemID, item.SupplierID, item.SupplierItemNumber, item.PurchaseOrderID, item.Model, item.ScreenSize,
		item.Chip, item.RAM, item.Storage, item.Year, gradeArg(item.ConditionGrade), item.ConditionSummary,
		item.PurchaseCost, item.PurchaseDate, string(item.Status), item.Notes,
	).Scan(&id)
	if err != nil {
		return Item{}, db.MapError("inventory item", err)
	}
	return r.Get(ctx, id)
}

// Update rewrites the editable columns. Status and sold_date are owned by
// the sales flow and are not changed here unless the item is not sold.
func (r *Repository) Update(ctx context.Context, item Item) (Item, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE inventory_items
SET item_id = $2, supplier_id = $3, supplier_item_number = $4, purchase_order_id = $5, model = $6, screen_size = $7,
    chip = $8, ram = $9, storage = $10, year = $11, condition_grade = $12, condition_summary = $13,
    purchase_cost = $14, purchase_date = $15, status = $16, notes = $17, updated_at = NOW()
WHERE id = $1 AND (status <> 'sold' OR $16 = 'sold')`,
		item.ID, item.ItemID, item.SupplierID, item.SupplierItemNumber, item.PurchaseOrderID, item.Model, item.ScreenSize,
		item.Chip, item.RAM, item.Storage, item.Year, gradeArg(item.ConditionGrade), item.ConditionSummary,
		item.PurchaseCost, item.PurchaseDate, string(item.Status), item.Notes,
	)
	if err != nil {
		return Item{}, db.MapError("inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return Item{}, fmt.Errorf("%w: item status changed concurrently", shared.ErrConflict)
	}
	return r.Get(ctx, item.ID)
}

// Delete removes an unsold item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1 AND status <> 'sold'`, id)
	if err != nil {
		return db.MapError("inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sold items cannot be deleted", shared.ErrConflict)
	}
	return nil
}

// ListInStockBefore returns in-stock items purchased on or before cutoff, oldest first.
func (r *Repository) ListInStockBefore(ctx context.Context, cutoff time.Time) ([]Item, error) {
	rows, err := r.pool.Query(ctx, selectItems+` WHERE i.status = 'in_stock' AND i.purchase_date <= $1 ORDER BY i.purchase_date ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func gradeArg(g *Grade) *string {
	if g == nil {
		return nil
	}
	s := string(*g)
	return &s
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var grade *string
	var status string
	err := row.Scan(&it.ID, &it.ItemID, &it.SupplierID, &it.SupplierCode, &it.SupplierName, &it.SupplierItemNumber,
		&it.PurchaseOrderID, &it.Model, &it.ScreenSize, &it.Chip, &it.RAM, &it.Storage, &it.Year, &grade,
		&it.ConditionSummary, &it.PurchaseCost, &it.PurchaseDate, &status, &it.SoldDate, &it.Notes,
		&it.CreatedAt, &it.UpdatedAt)
	if grade != nil {
		g := Grade(*grade)
		it.ConditionGrade = &g
	}
	it.Status = Status(status)
	return it, err
}
