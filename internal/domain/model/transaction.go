package model

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

// Field names as they appear on the wire.
const (
	FieldAmount          = "amount"
	FieldDistance        = "distance"
	FieldTransactionType = "transaction_type"
)

// FeatureNames lists the model features in vector order.
var FeatureNames = []string{"amount", "distance_from_home", "transaction_type"}

// Transaction is a validated card transaction ready to be scored.
type Transaction struct {
	amount           decimal.Decimal
	distanceFromHome float64
	transactionType  valueobject.TransactionType
}

// NewTransaction validates the raw fields. Each rule fails with its own
// ValidationError; values are never clamped or coerced.
func NewTransaction(amount decimal.Decimal, distanceFromHome float64, transactionType valueobject.TransactionType) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, newFieldError(FieldAmount, MsgAmountNotPositive)
	}
	if math.IsNaN(distanceFromHome) || math.IsInf(distanceFromHome, 0) {
		return Transaction{}, NewInvalidInputError("distance must be a finite number", FieldDistance)
	}
	if distanceFromHome < 0 {
		return Transaction{}, newFieldError(FieldDistance, MsgDistanceNegative)
	}
	if transactionType.IsZero() {
		return Transaction{}, newFieldError(FieldTransactionType, MsgInvalidTransactionType)
	}

	return Transaction{
		amount:           amount,
		distanceFromHome: distanceFromHome,
		transactionType:  transactionType,
	}, nil
}

func (t Transaction) Amount() decimal.Decimal                      { return t.amount }
func (t Transaction) DistanceFromHome() float64                    { return t.distanceFromHome }
func (t Transaction) TransactionType() valueobject.TransactionType { return t.transactionType }

// Features returns the model input vector [amount, distance_from_home, transaction_type].
func (t Transaction) Features() []float64 {
	return []float64{
		t.amount.InexactFloat64(),
		t.distanceFromHome,
		float64(t.transactionType.Code()),
	}
}

// LabeledTransaction is a training record.
type LabeledTransaction struct {
	Transaction
	IsFraud bool
}

// Class returns the label as a classifier class index.
func (l LabeledTransaction) Class() int {
	if l.IsFraud {
		return 1
	}
	return 0
}
