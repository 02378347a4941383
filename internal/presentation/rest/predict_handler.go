package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// PredictHandler serves the scoring endpoint.
type PredictHandler struct {
	predict *usecase.PredictTransaction
	logger  *slog.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(predict *usecase.PredictTransaction, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{predict: predict, logger: logger}
}

// RegisterRoutes registers the scoring endpoint on the provided ServeMux,
// wrapped in the given middleware.
func (h *PredictHandler) RegisterRoutes(mux *http.ServeMux, mw ...func(http.Handler) http.Handler) {
	var handler http.Handler = http.HandlerFunc(h.Predict)
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	mux.Handle("POST /predict", handler)
}

// Predict handles POST /predict.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	// A missing model is reported before the body is looked at.
	if !h.predict.ModelLoaded() {
		handleError(w, r, model.ErrModelUnavailable, h.logger)
		return
	}

	body, err := readBody(r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	req, err := dto.DecodePredictRequest(body)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	resp, err := h.predict.Execute(r.Context(), req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
