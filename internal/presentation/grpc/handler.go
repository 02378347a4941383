package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// Compile-time assertion that FraudDetectionHandler implements FraudDetectionServiceServer.
var _ FraudDetectionServiceServer = (*FraudDetectionHandler)(nil)

// FraudDetectionHandler implements the gRPC FraudDetectionServiceServer interface.
type FraudDetectionHandler struct {
	UnimplementedFraudDetectionServiceServer
	predict *usecase.PredictTransaction
	logger  *slog.Logger
}

// NewFraudDetectionHandler creates a new gRPC handler.
func NewFraudDetectionHandler(predict *usecase.PredictTransaction, logger *slog.Logger) *FraudDetectionHandler {
	return &FraudDetectionHandler{
		predict: predict,
		logger:  logger,
	}
}

// Proto-aligned request/response message types.

// PredictRequest represents the proto PredictRequest message. Numbers may be
// sent as JSON numbers or numeric strings.
type PredictRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	Distance        *decimal.Decimal `json:"distance"`
	TransactionType *decimal.Decimal `json:"transaction_type"`
}

// PredictResponse represents the proto PredictResponse message.
type PredictResponse struct {
	Prediction            string  `json:"prediction"`
	IsFraud               bool    `json:"is_fraud"`
	Confidence            float64 `json:"confidence"`
	FraudProbability      float64 `json:"fraud_probability"`
	LegitimateProbability float64 `json:"legitimate_probability"`
}

// Predict scores one transaction.
func (h *FraudDetectionHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.predict.Execute(ctx, dto.PredictRequest{
		Amount:          req.Amount,
		Distance:        req.Distance,
		TransactionType: req.TransactionType,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	return &PredictResponse{
		Prediction:            result.Prediction,
		IsFraud:               result.IsFraud,
		Confidence:            result.Confidence,
		FraudProbability:      result.FraudProbability,
		LegitimateProbability: result.LegitimateProbability,
	}, nil
}

// toStatus maps use case errors onto gRPC status codes.
func (h *FraudDetectionHandler) toStatus(ctx context.Context, err error) error {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		return status.Error(codes.InvalidArgument, vErr.Message)
	case errors.Is(err, model.ErrModelUnavailable):
		return status.Error(codes.Unavailable, "model not loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		h.logger.ErrorContext(ctx, "failed to score transaction", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}
