package suppliers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unitflow/unitflow/internal/platform/db"
	"github.com/unitflow/unitflow/internal/shared"
)

const supplierColumns = `id, code, name, type, contact_name, email, phone, website, notes, is_active, created_at, updated_at`

var sortColumns = map[string]string{
	"code":       "code",
	"name":       "name",
	"created_at": "created_at",
}

// Repository persists suppliers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns a page of suppliers and the total match count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	var f db.Filter
	if filters.Search != "" {
		p := f.Arg("%" + filters.Search + "%")
		f.Where("(code ILIKE " + p + " OR name ILIKE " + p + ")")
	}
	if filters.Active != nil {
		f.Where("is_active = " + f.Arg(*filters.Active))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	lf := shared.ListFilters{Page: filters.Page, Limit: filters.Limit, SortDir: filters.SortDir}
	query := `SELECT ` + supplierColumns + ` FROM suppliers` + f.SQL() +
		db.OrderBy(filters.SortBy, lf.Direction(), sortColumns, "name") +
		f.Page(lf.Limit, lf.Offset())

	rows, err := r.pool.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Get loads a supplier by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		return Supplier{}, db.MapError("supplier", err)
	}
	return s, nil
}

// Create inserts a supplier and returns the stored row.
func (r *Repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO suppliers (code, name, type, contact_name, email, phone, website, notes, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING `+supplierColumns,
		s.Code, s.Name, string(s.Type), s.ContactName, s.Email, s.Phone, s.Website, s.Notes, s.IsActive)
	created, err := scanSupplier(row)
	if err != nil {
		return Supplier{}, db.MapError("supplier", err)
	}
	return created, nil
}

// Update replaces a supplier's fields.
func (r *Repository) Update(ctx context.Context, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `UPDATE suppliers
SET code = $2, name = $3, type = $4, contact_name = $5, email = $6, phone = $7, website = $8, notes = $9, is_active = $10, updated_at = NOW()
WHERE id = $1
RETURNING `+supplierColumns,
		s.ID, s.Code, s.Name, string(s.Type), s.ContactName, s.Email, s.Phone, s.Website, s.Notes, s.IsActive)
	updated, err := scanSupplier(row)
	if err != nil {
		return Supplier{}, db.MapError("supplier", err)
	}
	return updated, nil
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	var typ string
	err := row.Scan(&s.ID, &s.Code, &s.Name, &typ, &s.ContactName, &s.Email, &s.Phone, &s.Website, &s.Notes, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	s.Type = Type(typ)
	return s, err
}
