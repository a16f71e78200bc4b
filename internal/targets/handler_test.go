package targets

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitflow/unitflow/internal/dashboard"
)

func TestHandlerTargetLifecycle(t *testing.T) {
	svc, _ := newTestService(t, &fakeSummaries{byWindow: map[window]dashboard.Summary{
		{day(2024, 3, 1), day(2024, 3, 20)}: {Revenue: 750},
	}})
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/targets", h.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/targets",
		strings.NewReader(`{"type":"revenue","target_value":1000,"start_date":"2024-03-01","deadline":"2024-03-31","style":"ring","label":" March "}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Target
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotNil(t, created.Label)
	assert.Equal(t, "March", *created.Label)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/targets/progress", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var progress struct {
		Data []Progress `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&progress))
	require.Len(t, progress.Data, 1)
	assert.InDelta(t, 75, progress.Data[0].Percent, 1e-9)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/targets", strings.NewReader(`{"type":"revenue","target_value":1,"deadline":"2020-01-01"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/targets/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/targets/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/targets", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}
