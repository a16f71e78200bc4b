package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/shared"
)

const customerColumns = `id, name, phone, email, type, source, notes, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"type":       "type",
	"created_at": "created_at",
}

// Repository persists customers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	var f db.Filter
	if filters.Search != "" {
		p := f.Arg("%" + filters.Search + "%")
		f.Where("(name ILIKE " + p + " OR phone ILIKE " + p + " OR email ILIKE " + p + ")")
	}
	if filters.Type != "" {
		f.Where("type = " + f.Arg(string(filters.Type)))
	}
	if filters.Source != "" {
		f.Where("source = " + f.Arg(string(filters.Source)))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	lf := shared.ListFilters{Page: filters.Page, Limit: filters.Limit, SortDir: filters.SortDir}
	query := `SELECT ` + customerColumns + ` FROM customers` + f.SQL() +
		db.OrderBy(filters.SortBy, lf.Direction(), sortColumns, "name") +
		f.Page(lf.Limit, lf.Offset())

	rows, err := r.pool.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return Customer{}, db.MapError("customer", err)
	}
	return c, nil
}

func (r *Repository) Create(ctx context.Context, c Customer) (Customer, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO customers (name, phone, email, type, source, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+customerColumns,
		c.Name, c.Phone, c.Email, string(c.Type), sourceArg(c.Source), c.Notes)
	created, err := scanCustomer(row)
	if err != nil {
		return Customer{}, db.MapError("customer", err)
	}
	return created, nil
}

func (r *Repository) Update(ctx context.Context, c Customer) (Customer, error) {
	row := r.pool.QueryRow(ctx, `UPDATE customers
SET name = $2, phone = $3, email = $4, type = $5, source = $6, notes = $7, updated_at = NOW()
WHERE id = $1
RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone, c.Email, string(c.Type), sourceArg(c.Source), c.Notes)
	updated, err := scanCustomer(row)
	if err != nil {
		return Customer{}, db.MapError("customer", err)
	}
	return updated, nil
}

func sourceArg(s *Source) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	var typ string
	var source *string
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &typ, &source, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	c.Type = Type(typ)
	if source != nil {
		s := Source(*source)
		c.Source = &s
	}
	return c, err
}
