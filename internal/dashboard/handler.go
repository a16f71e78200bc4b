package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/unitflow/unitflow/internal/platform/httpx"
	"github.com/unitflow/unitflow/internal/shared"
)

const requestTimeout = 5 * time.Second

// ReportService is the dashboard contract used by the handler.
type ReportService interface {
	Report(ctx context.Context, rangeKey shared.RangeKey) (Report, error)
}

// Writer renders a report into an export format.
type Writer func(w io.Writer, rep Report) error

// Handler serves the dashboard and its exports.
type Handler struct {
	logger  *slog.Logger
	service ReportService
	csv     Writer
	xlsx    Writer
}

// NewHandler constructs the dashboard handler. Exporters left nil answer 404.
func NewHandler(logger *slog.Logger, service ReportService, csv, xlsx Writer) *Handler {
	return &Handler{logger: logger, service: service, csv: csv, xlsx: xlsx}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Report, bool) {
	key, err := shared.ParseRangeKey(r.URL.Query().Get("range"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return Report{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rep, err := h.service.Report(ctx, key)
	if err != nil {
		httpx.RespondError(w, h.logger, fmt.Errorf("load dashboard: %w", err))
		return Report{}, false
	}
	return rep, true
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.csv, "csv", "text/csv; charset=utf-8")
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.xlsx, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, write Writer, ext, contentType string) {
	if write == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", ext+" export is not enabled")
		return
	}
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	// Render fully before writing headers so a failure can still return 500.
	var buf bytes.Buffer
	if err := write(&buf, rep); err != nil {
		httpx.RespondError(w, h.logger, fmt.Errorf("render %s: %w", ext, err))
		return
	}
	filename := fmt.Sprintf("dashboard-%s-%s.%s", rep.Range.Key, rep.AsOf.Format(shared.DateLayout), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
