package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bibbank/fraud-detection/internal/application/usecase"
)

// RouterOptions carries the optional parts of the HTTP surface.
type RouterOptions struct {
	// Metrics is served at /metrics when non-nil.
	Metrics http.Handler
	// RateLimit caps /predict requests per second; 0 disables it.
	RateLimit int
}

// NewRouter wires every HTTP route of the scoring service.
func NewRouter(predict *usecase.PredictTransaction, opts RouterOptions, logger *slog.Logger) (http.Handler, error) {
	pageHandler, err := NewPageHandler(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build page handler: %w", err)
	}

	mux := http.NewServeMux()
	var limiter *RateLimiter
	if opts.RateLimit > 0 {
		limiter = NewRateLimiter(opts.RateLimit)
	}
	NewPredictHandler(predict, logger).RegisterRoutes(mux, RateLimitMiddleware(limiter))
	NewHealthHandler(predict.ModelLoaded).RegisterRoutes(mux)
	pageHandler.RegisterRoutes(mux)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}

	var handler http.Handler = mux
	handler = RecoverMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler, nil
}
