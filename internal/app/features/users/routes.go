// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the router for user profile endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeSearch)
	r.Put("/{authID}", h.ServeUpsert)
	r.Get("/{authID}", h.ServeGet)
	r.Get("/{authID}/threads", h.ServeThreads)

	return r
}
