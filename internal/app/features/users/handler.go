// internal/app/features/users/handler.go
package users

import (
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/store/queries/threadviews"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/inputval"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/webutil"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the user profile endpoints: onboarding upserts, lookups,
// search, and the per-user thread listing.
type Handler struct {
	DB    *mongo.Database
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler creates a users Handler.
func NewHandler(db *mongo.Database, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Users: users, Log: logger}
}

// upsertRequest is the profile body for PUT /api/users/{authID}.
type upsertRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Bio      string `json:"bio"`
}

// ServeUpsert handles PUT /api/users/{authID}: create or fully update the
// profile for an external identity and mark it onboarded. Idempotent.
func (h *Handler) ServeUpsert(w http.ResponseWriter, r *http.Request) {
	authID := chi.URLParam(r, "authID")
	if err := inputval.AuthID(authID); err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	var req upsertRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, h.Log, apperr.Validation("invalid request body"))
		return
	}
	if err := inputval.Username(req.Username); err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user upsert")
	defer cancel()

	u, err := h.Users.Upsert(ctx, authID, userstore.Profile{
		Username: req.Username,
		Name:     req.Name,
		Image:    req.Image,
		Bio:      req.Bio,
	})
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	webutil.WriteJSON(w, http.StatusOK, u)
}

// ServeGet handles GET /api/users/{authID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user lookup")
	defer cancel()

	u, err := h.Users.GetByAuthID(ctx, chi.URLParam(r, "authID"))
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	webutil.WriteJSON(w, http.StatusOK, u)
}

// ServeThreads handles GET /api/users/{authID}/threads: everything the
// user authored, with reply previews.
func (h *Handler) ServeThreads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user threads")
	defer cancel()

	items, err := threadviews.UserThreads(ctx, h.DB, chi.URLParam(r, "authID"))
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	if items == nil {
		items = []threadviews.Item{}
	}
	webutil.WriteJSON(w, http.StatusOK, items)
}

// searchResponse is one page of user search results.
type searchResponse struct {
	Items   []userSummary `json:"items"`
	Total   int64         `json:"total"`
	HasNext bool          `json:"has_next"`
}

// userSummary strips the search result down to what a people-picker needs.
type userSummary struct {
	ID       string `json:"id"`
	AuthID   string `json:"auth_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
}

// ServeSearch handles GET /api/users?exclude=&q=&page=&size=&sort=.
// The exclude parameter carries the caller's own auth id so users never
// find themselves; q is a case-insensitive substring over username and
// display name, empty matching all.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	params := userstore.SearchParams{
		ExcludeAuthID: query.Get(r, "exclude"),
		Query:         query.Get(r, "q"),
		SortAsc:       query.Get(r, "sort") == "asc",
		Page:          paging.Parse(r),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user search")
	defer cancel()

	res, err := h.Users.Search(ctx, params)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	items := make([]userSummary, 0, len(res.Items))
	for _, u := range res.Items {
		items = append(items, userSummary{
			ID:       u.ID.Hex(),
			AuthID:   u.AuthID,
			Username: u.Username,
			Name:     u.Name,
			Image:    u.Image,
		})
	}
	webutil.WriteJSON(w, http.StatusOK, searchResponse{
		Items:   items,
		Total:   res.Total,
		HasNext: res.HasNext,
	})
}
