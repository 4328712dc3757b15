// internal/app/features/activity/routes.go
package activity

import "github.com/go-chi/chi/v5"

// Routes returns the router for activity endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{authID}", h.ServeActivity)
	return r
}
