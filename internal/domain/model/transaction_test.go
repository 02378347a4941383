package model_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/model"
	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func TestNewTransaction(t *testing.T) {
	t.Run("valid transaction", func(t *testing.T) {
		tx, err := model.NewTransaction(decimal.RequireFromString("150.50"), 12.5, valueobject.TransactionTypeATM)
		require.NoError(t, err)

		assert.Equal(t, "150.5", tx.Amount().String())
		assert.Equal(t, 12.5, tx.DistanceFromHome())
		assert.Equal(t, []float64{150.5, 12.5, 2}, tx.Features())
	})

	t.Run("zero distance is allowed", func(t *testing.T) {
		_, err := model.NewTransaction(decimal.NewFromInt(1), 0, valueobject.TransactionTypeOnline)
		assert.NoError(t, err)
	})
}

func TestNewTransaction_Validation(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		distance float64
		txType   valueobject.TransactionType
		message  string
		field    string
	}{
		{"zero amount", decimal.Zero, 1, valueobject.TransactionTypeOnline, "Amount must be positive", model.FieldAmount},
		{"negative amount", decimal.NewFromInt(-5), 1, valueobject.TransactionTypeOnline, "Amount must be positive", model.FieldAmount},
		{"negative distance", decimal.NewFromInt(5), -0.01, valueobject.TransactionTypeOnline, "Distance cannot be negative", model.FieldDistance},
		{"infinite distance", decimal.NewFromInt(5), math.Inf(1), valueobject.TransactionTypeOnline, "Invalid input: distance must be a finite number", model.FieldDistance},
		{"unset type", decimal.NewFromInt(5), 1, valueobject.TransactionType{}, "Invalid transaction type", model.FieldTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewTransaction(tt.amount, tt.distance, tt.txType)

			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.message, vErr.Error())
			assert.Equal(t, []string{tt.field}, vErr.Fields)
		})
	}
}

func TestValidationErrorConstructors(t *testing.T) {
	missing := model.NewMissingFieldsError("amount", "distance")
	assert.Equal(t, "Missing required fields", missing.Error())
	assert.Equal(t, []string{"amount", "distance"}, missing.Fields)
	assert.False(t, missing.IsInvalidInput())

	invalid := model.NewInvalidInputError("amount is not a number", "amount")
	assert.Equal(t, "Invalid input: amount is not a number", invalid.Error())
	assert.True(t, invalid.IsInvalidInput())
}

func TestLabeledTransactionClass(t *testing.T) {
	tx, err := model.NewTransaction(decimal.NewFromInt(10), 1, valueobject.TransactionTypeOnline)
	require.NoError(t, err)

	assert.Equal(t, 1, model.LabeledTransaction{Transaction: tx, IsFraud: true}.Class())
	assert.Equal(t, 0, model.LabeledTransaction{Transaction: tx}.Class())
}
