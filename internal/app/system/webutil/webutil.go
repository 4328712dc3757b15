// Package webutil holds the JSON request/response helpers shared by the
// feature handlers, including the mapping from the service error taxonomy
// to HTTP status codes.
package webutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
	"github.com/dalemusser/threadhub/internal/app/system/limits"
	"go.uber.org/zap"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// bodies over limits.MaxJSONBodySize.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// WriteError maps err onto the HTTP status implied by the error taxonomy
// and writes a JSON error body. Unrecognized errors become a 500 with a
// generic message; the detail goes to the log, not the client.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	// Checked first: a partial failure keeps its cause on the chain, and a
	// wrapped ErrNotFound must not downgrade the response to a plain 404.
	case errors.Is(err, apperr.ErrPartialFailure):
		// An earlier step committed; the caller needs to know which step
		// did not so the message passes through.
		log.Error("partial failure", zap.Error(err))
		WriteJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", zap.Error(err))
		WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
