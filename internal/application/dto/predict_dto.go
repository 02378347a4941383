package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// PredictRequest is the input DTO for the PredictTransaction use case. Nil
// fields are missing. Numbers are carried as decimals so that "12.50" and
// 12.5 are both accepted and nothing is rounded before validation.
type PredictRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	Distance        *decimal.Decimal `json:"distance"`
	TransactionType *decimal.Decimal `json:"transaction_type"`
}

// PredictionResponse is the output DTO returned after scoring. Probabilities
// are percentages.
type PredictionResponse struct {
	Prediction            string  `json:"prediction"`
	IsFraud               bool    `json:"is_fraud"`
	Confidence            float64 `json:"confidence"`
	FraudProbability      float64 `json:"fraud_probability"`
	LegitimateProbability float64 `json:"legitimate_probability"`
}

// DecodePredictRequest parses a JSON body. Absent or null fields are
// reported together as missing before any value is inspected; a present
// value that is not a number is invalid input.
func DecodePredictRequest(body []byte) (PredictRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return PredictRequest{}, model.NewInvalidInputError("request body must be a JSON object")
	}

	fields := []string{model.FieldAmount, model.FieldDistance, model.FieldTransactionType}

	var missing []string
	for _, f := range fields {
		if v, ok := raw[f]; !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return PredictRequest{}, model.NewMissingFieldsError(missing...)
	}

	values := make([]*decimal.Decimal, len(fields))
	for i, f := range fields {
		var d decimal.Decimal
		if err := d.UnmarshalJSON(raw[f]); err != nil {
			return PredictRequest{}, model.NewInvalidInputError(fmt.Sprintf("%s must be a number", f), f)
		}
		values[i] = &d
	}

	return PredictRequest{
		Amount:          values[0],
		Distance:        values[1],
		TransactionType: values[2],
	}, nil
}

// maxExponent bounds the decimal exponent of every numeric field. Comparing
// or converting a decimal rescales it by a power of ten of that size.
const maxExponent = 32

func exponentInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent
}

// ToTransaction validates the request into a domain transaction.
func (r PredictRequest) ToTransaction() (model.Transaction, error) {
	var missing []string
	if r.Amount == nil {
		missing = append(missing, model.FieldAmount)
	}
	if r.Distance == nil {
		missing = append(missing, model.FieldDistance)
	}
	if r.TransactionType == nil {
		missing = append(missing, model.FieldTransactionType)
	}
	if len(missing) > 0 {
		return model.Transaction{}, model.NewMissingFieldsError(missing...)
	}

	if !exponentInRange(*r.Amount) {
		return model.Transaction{}, model.NewInvalidInputError("amount is out of range", model.FieldAmount)
	}
	if !exponentInRange(*r.Distance) {
		return model.Transaction{}, model.NewInvalidInputError("distance is out of range", model.FieldDistance)
	}

	// An unknown, fractional or out-of-range code stays zero and fails
	// validation after the amount and distance checks.
	var txType valueobject.TransactionType
	code := *r.TransactionType
	if exponentInRange(code) && code.IsInteger() && code.Abs().LessThan(decimal.NewFromInt(1<<31)) {
		txType, _ = valueobject.TransactionTypeFromCode(int(code.IntPart()))
	}

	return model.NewTransaction(*r.Amount, r.Distance.InexactFloat64(), txType)
}

// FromPrediction maps a prediction aggregate to the response DTO.
func FromPrediction(p *model.Prediction) PredictionResponse {
	return PredictionResponse{
		Prediction:            p.Label().String(),
		IsFraud:               p.IsFraud(),
		Confidence:            p.Confidence() * 100,
		FraudProbability:      p.FraudProbability() * 100,
		LegitimateProbability: p.LegitimateProbability() * 100,
	}
}
