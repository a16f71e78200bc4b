package suppliers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitflow/unitflow/internal/shared"
)

type memoryRepo struct {
	rows map[uuid.UUID]Supplier
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[uuid.UUID]Supplier)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	var out []Supplier
	for _, s := range r.rows {
		if filters.Active != nil && s.IsActive != *filters.Active {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(s.Name+s.Code), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	s, ok := r.rows[id]
	if !ok {
		return Supplier{}, fmt.Errorf("supplier %w", shared.ErrNotFound)
	}
	return s, nil
}

func (r *memoryRepo) codeTaken(code string, except uuid.UUID) bool {
	for id, s := range r.rows {
		if id != except && s.Code == code {
			return true
		}
	}
	return false
}

func (r *memoryRepo) Create(ctx context.Context, s Supplier) (Supplier, error) {
	if r.codeTaken(s.Code, uuid.Nil) {
		return Supplier{}, fmt.Errorf("%w: supplier already exists", shared.ErrDuplicate)
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.rows[s.ID] = s
	return s, nil
}

func (r *memoryRepo) Update(ctx context.Context, s Supplier) (Supplier, error) {
	if r.codeTaken(s.Code, s.ID) {
		return Supplier{}, fmt.Errorf("%w: supplier already exists", shared.ErrDuplicate)
	}
	prev := r.rows[s.ID]
	s.CreatedAt = prev.CreatedAt
	s.UpdatedAt = time.Now()
	r.rows[s.ID] = s
	return s, nil
}

func strPtr(s string) *string { return &s }

func TestCreateNormalisesCode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	sup, err := svc.Create(context.Background(), SupplierInput{Code: " ab1 ", Name: "Apple Bulk", Email: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "AB1", sup.Code)
	assert.Equal(t, TypeOther, sup.Type)
	assert.True(t, sup.IsActive)
	assert.Nil(t, sup.Email)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), SupplierInput{Code: "A", Name: "", Email: strPtr("nope"), Type: "pawn"})

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "type")
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	_, err := svc.Create(ctx, SupplierInput{Code: "RB", Name: "Reboot"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SupplierInput{Code: "rb", Name: "Reboot Two"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateMissingSupplier(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Update(context.Background(), uuid.New(), SupplierInput{Code: "RB", Name: "Reboot"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateCanDeactivate(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	sup, err := svc.Create(ctx, SupplierInput{Code: "RB", Name: "Reboot"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, sup.ID, SupplierInput{Code: "RB", Name: "Reboot LLC", IsActive: &inactive, Type: TypeRefurbisher})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Reboot LLC", updated.Name)
	assert.Equal(t, sup.CreatedAt, updated.CreatedAt)
}
