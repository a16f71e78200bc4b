package suppliers

import "github.com/go-chi/chi/v5"

// MountRoutes registers supplier routes. Suppliers are never deleted.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
}
