package purchaseorders

import (
	"log/slog"
	"net/http"

	"github.com/unitflow/unitflow/internal/platform/httpx"
	"github.com/unitflow/unitflow/internal/shared"
)

// Handler wires HTTP endpoints for purchase orders.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the purchase order handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	base := shared.ParseListFilters(r.URL.Query())
	supplierID, err := httpx.QueryUUID(r, "supplier_id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	status := Status(r.URL.Query().Get("status"))
	switch status {
	case "", StatusPending, StatusReceived, StatusPartial, StatusCancelled:
	default:
		httpx.RespondError(w, h.logger, shared.NewValidationError("status", "must be one of: pending received partial cancelled"))
		return
	}

	orders, total, err := h.service.List(r.Context(), ListFilters{
		Page:       base.Page,
		Limit:      base.Limit,
		Search:     base.Search,
		SortBy:     base.SortBy,
		SortDir:    base.SortDir,
		Status:     status,
		SupplierID: supplierID,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewPage(orders, base, total))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	po, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in PurchaseOrderInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	po, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("purchase order created", slog.String("id", po.ID.String()), slog.String("number", po.Number))
	httpx.JSON(w, http.StatusCreated, po)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	var in PurchaseOrderInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	po, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}
