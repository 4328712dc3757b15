// internal/app/features/threads/routes.go
package threads

import "github.com/go-chi/chi/v5"

// Routes returns the router for thread endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeFeed)
	r.Post("/", h.ServeCreate)
	r.Get("/{threadID}", h.ServeDetail)
	r.Delete("/{threadID}", h.ServeDelete)
	r.Post("/{threadID}/comments", h.ServeAddComment)

	return r
}
