package dto_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/application/dto"
	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func requireValidationError(t *testing.T, err error) *model.ValidationError {
	t.Helper()
	var vErr *model.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
	return vErr
}

func TestDecodePredictRequest(t *testing.T) {
	t.Run("numbers and numeric strings", func(t *testing.T) {
		req, err := dto.DecodePredictRequest([]byte(`{"amount":"125.50","distance":12,"transaction_type":2}`))
		require.NoError(t, err)

		assert.True(t, req.Amount.Equal(decimal.RequireFromString("125.50")))
		assert.True(t, req.Distance.Equal(decimal.NewFromInt(12)))
		assert.True(t, req.TransactionType.Equal(decimal.NewFromInt(2)))
	})

	t.Run("missing fields are reported together", func(t *testing.T) {
		_, err := dto.DecodePredictRequest([]byte(`{"amount":10}`))
		vErr := requireValidationError(t, err)

		assert.Equal(t, model.MsgMissingFields, vErr.Message)
		assert.Equal(t, []string{model.FieldDistance, model.FieldTransactionType}, vErr.Fields)
	})

	t.Run("null counts as missing", func(t *testing.T) {
		_, err := dto.DecodePredictRequest([]byte(`{"amount":10,"distance":null,"transaction_type":0}`))
		vErr := requireValidationError(t, err)

		assert.Equal(t, model.MsgMissingFields, vErr.Message)
		assert.Equal(t, []string{model.FieldDistance}, vErr.Fields)
	})

	t.Run("missing wins over non-numeric", func(t *testing.T) {
		_, err := dto.DecodePredictRequest([]byte(`{"amount":"abc"}`))
		vErr := requireValidationError(t, err)
		assert.Equal(t, model.MsgMissingFields, vErr.Message)
	})

	t.Run("non-numeric value", func(t *testing.T) {
		_, err := dto.DecodePredictRequest([]byte(`{"amount":"abc","distance":1,"transaction_type":0}`))
		vErr := requireValidationError(t, err)

		assert.True(t, vErr.IsInvalidInput())
		assert.Equal(t, "Invalid input: amount must be a number", vErr.Message)
	})

	t.Run("boolean value", func(t *testing.T) {
		_, err := dto.DecodePredictRequest([]byte(`{"amount":1,"distance":true,"transaction_type":0}`))
		vErr := requireValidationError(t, err)
		assert.Equal(t, []string{model.FieldDistance}, vErr.Fields)
	})

	for name, body := range map[string]string{
		"malformed json": `{"amount":`,
		"array body":     `[1,2,3]`,
		"null body":      `null`,
		"empty body":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := dto.DecodePredictRequest([]byte(body))
			vErr := requireValidationError(t, err)
			assert.True(t, vErr.IsInvalidInput())
		})
	}
}

func TestPredictRequest_ToTransaction(t *testing.T) {
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	t.Run("valid", func(t *testing.T) {
		tx, err := dto.PredictRequest{Amount: dec("30"), Distance: dec("2.5"), TransactionType: dec("1")}.ToTransaction()
		require.NoError(t, err)

		assert.True(t, tx.Amount().Equal(decimal.NewFromInt(30)))
		assert.InDelta(t, 2.5, tx.DistanceFromHome(), 1e-12)
		assert.Equal(t, valueobject.TransactionTypeInStore, tx.TransactionType())
	})

	tests := []struct {
		name    string
		req     dto.PredictRequest
		message string
	}{
		{
			name:    "nil fields",
			req:     dto.PredictRequest{Amount: dec("1")},
			message: model.MsgMissingFields,
		},
		{
			name:    "zero amount",
			req:     dto.PredictRequest{Amount: dec("0"), Distance: dec("1"), TransactionType: dec("0")},
			message: model.MsgAmountNotPositive,
		},
		{
			name:    "amount checked before distance and type",
			req:     dto.PredictRequest{Amount: dec("-5"), Distance: dec("-1"), TransactionType: dec("9")},
			message: model.MsgAmountNotPositive,
		},
		{
			name:    "distance checked before type",
			req:     dto.PredictRequest{Amount: dec("5"), Distance: dec("-1"), TransactionType: dec("9")},
			message: model.MsgDistanceNegative,
		},
		{
			name:    "unknown type",
			req:     dto.PredictRequest{Amount: dec("5"), Distance: dec("1"), TransactionType: dec("3")},
			message: model.MsgInvalidTransactionType,
		},
		{
			name:    "fractional type",
			req:     dto.PredictRequest{Amount: dec("5"), Distance: dec("1"), TransactionType: dec("1.5")},
			message: model.MsgInvalidTransactionType,
		},
		{
			name:    "huge type",
			req:     dto.PredictRequest{Amount: dec("5"), Distance: dec("1"), TransactionType: dec("1e40")},
			message: model.MsgInvalidTransactionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToTransaction()
			vErr := requireValidationError(t, err)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

func TestPredictRequest_ExtremeExponents(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "huge type exponent",
			body:    `{"amount":10,"distance":1,"transaction_type":1e48000000}`,
			message: model.MsgInvalidTransactionType,
		},
		{
			name:    "tiny type exponent",
			body:    `{"amount":10,"distance":1,"transaction_type":1e-48000000}`,
			message: model.MsgInvalidTransactionType,
		},
		{
			name:    "huge amount exponent",
			body:    `{"amount":1e48000000,"distance":1,"transaction_type":0}`,
			message: "Invalid input: amount is out of range",
		},
		{
			name:    "tiny distance exponent",
			body:    `{"amount":10,"distance":"1e-48000000","transaction_type":0}`,
			message: "Invalid input: distance is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			req, err := dto.DecodePredictRequest([]byte(tt.body))
			require.NoError(t, err)
			_, err = req.ToTransaction()
			elapsed := time.Since(start)

			vErr := requireValidationError(t, err)
			assert.Equal(t, tt.message, vErr.Message)
			assert.Less(t, elapsed, 100*time.Millisecond)
		})
	}

	t.Run("ordinary exponents still accepted", func(t *testing.T) {
		for _, code := range []string{"1.0", "1e0", "10e-1", "0.000"} {
			body := fmt.Sprintf(`{"amount":"1.25e2","distance":"5e-3","transaction_type":%s}`, code)
			req, err := dto.DecodePredictRequest([]byte(body))
			require.NoError(t, err)
			_, err = req.ToTransaction()
			assert.NoError(t, err, code)
		}
	})
}

func TestFromPrediction(t *testing.T) {
	tx, err := model.NewTransaction(decimal.NewFromInt(1000), 400, valueobject.TransactionTypeOnline)
	require.NoError(t, err)
	p, err := model.NewPrediction(tx, 1, []float64{0.25, 0.75})
	require.NoError(t, err)

	resp := dto.FromPrediction(p)

	assert.Equal(t, "Fraudulent", resp.Prediction)
	assert.True(t, resp.IsFraud)
	assert.InDelta(t, 75.0, resp.Confidence, 1e-9)
	assert.InDelta(t, 75.0, resp.FraudProbability, 1e-9)
	assert.InDelta(t, 25.0, resp.LegitimateProbability, 1e-9)
}
