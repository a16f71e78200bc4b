package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/shared"
)

const selectSales = `SELECT sa.id, sa.item_id, i.item_id, i.model, i.purchase_cost::float8, sa.customer_id, c.name,
       sa.sale_price::float8, sa.sale_date, sa.payment_method, sa.channel, sa.notes, sa.created_at, sa.updated_at
FROM sales sa
LEFT JOIN inventory_items i ON i.id = sa.item_id
LEFT JOIN customers c ON c.id = sa.customer_id`

var sortColumns = map[string]string{
	"sale_date":  "sa.sale_date",
	"sale_price": "sa.sale_price",
	"created_at": "sa.created_at",
}

// Repository persists sales in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the writes that must commit together.
type TxRepository interface {
	LockSale(ctx context.Context, id uuid.UUID) (Sale, error)
	LockItem(ctx context.Context, id uuid.UUID) (ItemState, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	InsertSale(ctx context.Context, sale Sale) (uuid.UUID, error)
	UpdateSale(ctx context.Context, sale Sale) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
	MarkItemSold(ctx context.Context, itemID uuid.UUID, soldDate time.Time) error
	MarkItemInStock(ctx context.Context, itemID uuid.UUID) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes fn inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	var f db.Filter
	if filters.Search != "" {
		p := f.Arg("%" + filters.Search + "%")
		f.Where("(i.item_id ILIKE " + p + " OR i.model ILIKE " + p + " OR c.name ILIKE " + p + ")")
	}
	if filters.From != nil {
		f.Where("sa.sale_date >= " + f.Arg(*filters.From))
	}
	if filters.To != nil {
		f.Where("sa.sale_date <= " + f.Arg(*filters.To))
	}
	if filters.CustomerID != nil {
		f.Where("sa.customer_id = " + f.Arg(*filters.CustomerID))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM sales sa
LEFT JOIN inventory_items i ON i.id = sa.item_id
LEFT JOIN customers c ON c.id = sa.customer_id` + f.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	lf := shared.ListFilters{Page: filters.Page, Limit: filters.Limit, SortDir: filters.SortDir}
	if filters.SortDir == "" {
		lf.SortDir = shared.SortDesc
	}
	query := selectSales + f.SQL() +
		db.OrderBy(filters.SortBy, lf.Direction(), sortColumns, "sa.sale_date") + ", sa.created_at DESC" +
		f.Page(lf.Limit, lf.Offset())

	rows, err := r.pool.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Sale, error) {
	s, err := scanSale(r.pool.QueryRow(ctx, selectSales+` WHERE sa.id = $1`, id))
	if err != nil {
		return Sale{}, db.MapError("sale", err)
	}
	return s, nil
}

func (t *txRepo) LockSale(ctx context.Context, id uuid.UUID) (Sale, error) {
	var s Sale
	var pm, ch string
	err := t.tx.QueryRow(ctx, `SELECT id, item_id, customer_id, sale_price::float8, sale_date, payment_method, channel, notes, created_at, updated_at
FROM sales WHERE id = $1 FOR UPDATE`, id).
		Scan(&s.ID, &s.ItemID, &s.CustomerID, &s.SalePrice, &s.SaleDate, &pm, &ch, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Sale{}, db.MapError("sale", err)
	}
	s.PaymentMethod = PaymentMethod(pm)
	s.Channel = Channel(ch)
	return s, nil
}

func (t *txRepo) LockItem(ctx context.Context, id uuid.UUID) (ItemState, error) {
	var st ItemState
	err := t.tx.QueryRow(ctx, `SELECT id, item_id, status FROM inventory_items WHERE id = $1 FOR UPDATE`, id).
		Scan(&st.ID, &st.ItemCode, &st.Status)
	if err != nil {
		return ItemState{}, db.MapError("inventory item", err)
	}
	return st, nil
}

func (t *txRepo) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := t.tx.QueryRow(ctx, `SELECT 1 FROM customers WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (t *txRepo) InsertSale(ctx context.Context, s Sale) (uuid.UUID, error) {
	var id uuid.UUID
	err := t.tx.QueryRow(ctx, `INSERT INTO sales (item_id, customer_id, sale_price, sale_date, payment_method, channel, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		s.ItemID, s.CustomerID, s.SalePrice, s.SaleDate, string(s.PaymentMethod), string(s.Channel), s.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, db.MapError("sale", err)
	}
	return id, nil
}

func (t *txRepo) UpdateSale(ctx context.Context, s Sale) error {
	tag, err := t.tx.Exec(ctx, `UPDATE sales
SET item_id = $2, customer_id = $3, sale_price = $4, sale_date = $5, payment_method = $6, channel = $7, notes = $8, updated_at = NOW()
WHERE id = $1`,
		s.ID, s.ItemID, s.CustomerID, s.SalePrice, s.SaleDate, string(s.PaymentMethod), string(s.Channel), s.Notes,
	)
	if err != nil {
		return db.MapError("sale", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale %w", shared.ErrNotFound)
	}
	return nil
}

func (t *txRepo) DeleteSale(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return db.MapError("sale", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale %w", shared.ErrNotFound)
	}
	return nil
}

func (t *txRepo) MarkItemSold(ctx context.Context, itemID uuid.UUID, soldDate time.Time) error {
	return t.setItemStatus(ctx, itemID, itemStatusSold, &soldDate)
}

func (t *txRepo) MarkItemInStock(ctx context.Context, itemID uuid.UUID) error {
	return t.setItemStatus(ctx, itemID, itemStatusInStock, nil)
}

func (t *txRepo) setItemStatus(ctx context.Context, itemID uuid.UUID, status string, soldDate *time.Time) error {
	tag, err := t.tx.Exec(ctx, `UPDATE inventory_items SET status = $2, sold_date = $3, updated_at = NOW() WHERE id = $1`,
		itemID, status, soldDate)
	if err != nil {
		return db.MapError("inventory item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory item %w", shared.ErrNotFound)
	}
	return nil
}

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	var code, model *string
	var pm, ch string
	err := row.Scan(&s.ID, &s.ItemID, &code, &model, &s.ItemCost, &s.CustomerID, &s.CustomerName,
		&s.SalePrice, &s.SaleDate, &pm, &ch, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if code != nil {
		s.ItemCode = *code
	}
	if model != nil {
		s.ItemModel = *model
	}
	s.PaymentMethod = PaymentMethod(pm)
	s.Channel = Channel(ch)
	return s, err
}
