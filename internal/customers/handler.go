package customers

import (
	"log/slog"
	"net/http"

	"github.com/unitflow/unitflow/internal/platform/httpx"
	"github.com/unitflow/unitflow/internal/shared"
)

// Handler wires HTTP endpoints for customers.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the customer handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	base := shared.ParseListFilters(q)
	filters := ListFilters{
		Page:    base.Page,
		Limit:   base.Limit,
		Search:  base.Search,
		SortBy:  base.SortBy,
		SortDir: base.SortDir,
		Type:    Type(q.Get("type")),
		Source:  Source(q.Get("source")),
	}
	probe := CustomerInput{Name: "-", Type: filters.Type}
	if filters.Source != "" {
		probe.Source = &filters.Source
	}
	if err := shared.Validate(probe); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, base, total))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CustomerInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("customer created", slog.String("id", c.ID.String()))
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	var in CustomerInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	c, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
