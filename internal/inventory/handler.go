package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/unitflow/unitflow/internal/platform/httpx"
	"github.com/unitflow/unitflow/internal/shared"
)

// DefaultStaleDays is the holding period after which a unit counts as stale.
const DefaultStaleDays = 90

// Handler wires HTTP endpoints for inventory items.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func parseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case "", StatusInStock, StatusSold, StatusReserved, StatusReturned, StatusDOA, StatusPersonalUse:
		return s, nil
	}
	return "", shared.NewValidationError("status", "must be one of: in_stock sold reserved returned doa personal_use")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	base := shared.ParseListFilters(r.URL.Query())
	status, err := parseStatus(r.URL.Query().Get("status"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	supplierID, err := httpx.QueryUUID(r, "supplier_id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	poID, err := httpx.QueryUUID(r, "purchase_order_id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	items, total, err := h.service.List(r.Context(), ListFilters{
		Page:            base.Page,
		Limit:           base.Limit,
		Search:          base.Search,
		SortBy:          base.SortBy,
		SortDir:         base.SortDir,
		Status:          status,
		SupplierID:      supplierID,
		PurchaseOrderID: poID,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(items, base, total))
}

func (h *Handler) stale(w http.ResponseWriter, r *http.Request) {
	days := DefaultStaleDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			httpx.RespondError(w, h.logger, shared.NewValidationError("days", "must be a whole number"))
			return
		}
		days = v
	}
	items, err := h.service.Stale(r.Context(), days)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"days": days, "data": items})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in ItemInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("inventory item created", slog.String("id", item.ID.String()), slog.String("item_id", item.ItemID))
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	var in ItemInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("inventory item deleted", slog.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
