package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// Messages returned to HTTP callers.
const (
	MsgModelNotLoaded = "Model not loaded. Please run the training command first."
	MsgInternal       = "Internal server error"
	msgBodyTooLarge   = "Request body too large"
)

var errBodyTooLarge = errors.New("request body too large")

// handleError maps a use case error onto a status code and a JSON body.
// Only validation messages reach the caller verbatim.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	case errors.Is(err, model.ErrModelUnavailable):
		writeError(w, http.StatusInternalServerError, MsgModelNotLoaded)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, MsgInternal)
	}
}
