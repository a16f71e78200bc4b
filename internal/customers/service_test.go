package customers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitflow/unitflow/internal/shared"
)

type memoryRepo struct {
	rows map[uuid.UUID]Customer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[uuid.UUID]Customer)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	var out []Customer
	for _, c := range r.rows {
		if filters.Type != "" && c.Type != filters.Type {
			continue
		}
		if filters.Source != "" && (c.Source == nil || *c.Source != filters.Source) {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return Customer{}, fmt.Errorf("customer %w", shared.ErrNotFound)
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, c Customer) (Customer, error) {
	c.ID = uuid.New()
	r.rows[c.ID] = c
	return c, nil
}

func (r *memoryRepo) Update(ctx context.Context, c Customer) (Customer, error) {
	r.rows[c.ID] = c
	return c, nil
}

type countingCache struct{ bumps int }

func (c *countingCache) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func TestCreateDefaultsType(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	src := SourceEbay
	c, err := svc.Create(context.Background(), CustomerInput{Name: "  Dana  ", Source: &src})
	require.NoError(t, err)
	assert.Equal(t, "Dana", c.Name)
	assert.Equal(t, TypeIndividual, c.Type)
	require.NotNil(t, c.Source)
	assert.Equal(t, SourceEbay, *c.Source)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	bad := Source("newspaper")
	email := "dana@"
	_, err := svc.Create(context.Background(), CustomerInput{Source: &bad, Email: &email, Type: "vip"})

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
}

func TestUpdateBumpsDashboard(t *testing.T) {
	cache := &countingCache{}
	svc := NewService(newMemoryRepo(), cache)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{Name: "Dana"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, c.ID, CustomerInput{Name: "Dana Reyes", Type: TypeReseller})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.bumps)

	_, err = svc.Update(ctx, uuid.New(), CustomerInput{Name: "Ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestHandlerFilters(t *testing.T) {
	repo := newMemoryRepo()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo, nil))
	r := chi.NewRouter()
	r.Route("/customers", h.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"name":"Lee","type":"business","source":"walk_in"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers?type=business&source=walk_in", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Lee"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers?source=billboard", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
