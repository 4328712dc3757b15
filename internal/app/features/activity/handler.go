// internal/app/features/activity/handler.go
package activity

import (
	"net/http"

	activitysvc "github.com/dalemusser/threadhub/internal/app/service/activity"
	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/app/system/webutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the reply-activity feed for a user.
type Handler struct {
	Activity *activitysvc.Service
	Log      *zap.Logger
}

// NewHandler creates an activity Handler.
func NewHandler(svc *activitysvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Activity: svc, Log: logger}
}

// ServeActivity handles GET /api/activity/{authID}: comments other users
// left on the given user's threads.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "activity feed")
	defer cancel()

	replies, err := h.Activity.Replies(ctx, chi.URLParam(r, "authID"))
	if err != nil {
		webutil.WriteError(w, h.Log, err)
		return
	}
	if replies == nil {
		replies = []activitysvc.Reply{}
	}
	webutil.WriteJSON(w, http.StatusOK, replies)
}
