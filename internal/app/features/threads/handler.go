// internal/app/features/threads/handler.go
package threads

import (
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/service/threadtree"
	"github.com/dalemusser/threadhub/internal/app/store/queries/threadviews"
	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/webutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the thread endpoints: the paged feed, detail views, and the
// tree mutations (create, comment, cascade delete).
type Handler struct {
	DB   *mongo.Database
	Tree *threadtree.Service
	Log  *zap.Logger
}

// NewHandler creates a threads Handler.
func NewHandler(db *mongo.Database, tree *threadtree.Service, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Tree: tree, Log: logger}
}

// threadParam parses the {threadID} URL parameter. A malformed id cannot
// refer to any thread, so it maps to NotFound rather than a validation
// error.
func threadParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "threadID"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("thread")
	}
	return id, nil
}

// createRequest is the body for creating a top-level thread or a comment.
// AuthorID is the externally-authenticated identity id; this layer trusts
// it, authentication having happened upstream.
type createRequest struct {
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
}

// ServeCreate handles POST /api/threads.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, h.Log, apperr.Validation("invalid request body"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create thread")
	defer cancel()

	th, err := h.Tree.CreateTopLevel(ctx, req.Text, req.AuthorID)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	webutil.WriteJSON(w, http.StatusCreated, th)
}

// feedResponse is the paged feed body: items plus the "more available" flag.
type feedResponse struct {
	Items   []threadviews.Item `json:"items"`
	Total   int64              `json:"total"`
	HasNext bool               `json:"has_next"`
}

// ServeFeed handles GET /api/threads?page=&size=.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "thread feed")
	defer cancel()

	res, err := threadviews.Feed(ctx, h.DB, page)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	if res.Items == nil {
		res.Items = []threadviews.Item{}
	}
	webutil.WriteJSON(w, http.StatusOK, feedResponse{
		Items:   res.Items,
		Total:   res.Total,
		HasNext: res.HasNext,
	})
}

// ServeDetail handles GET /api/threads/{threadID}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := threadParam(r)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "thread detail")
	defer cancel()

	detail, err := threadviews.GetDetail(ctx, h.DB, id)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	webutil.WriteJSON(w, http.StatusOK, detail)
}

// ServeAddComment handles POST /api/threads/{threadID}/comments.
func (h *Handler) ServeAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := threadParam(r)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	var req createRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		webutil.WriteError(w, h.Log, apperr.Validation("invalid request body"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "add comment")
	defer cancel()

	comment, err := h.Tree.AddComment(ctx, id, req.Text, req.AuthorID)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	webutil.WriteJSON(w, http.StatusCreated, comment)
}

// ServeDelete handles DELETE /api/threads/{threadID}. Whether the caller is
// allowed to delete the thread is decided upstream; this layer only
// executes the cascade.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := threadParam(r)
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "cascade delete")
	defer cancel()

	if err := h.Tree.Delete(ctx, id); err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
