package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-detection/internal/domain/valueobject"
)

func TestPredictionLabel_FromClass(t *testing.T) {
	legit, err := valueobject.LabelFromClass(0)
	require.NoError(t, err)
	assert.Equal(t, "Legitimate", legit.String())
	assert.False(t, legit.IsFraud())
	assert.Equal(t, 0, legit.Class())

	fraud, err := valueobject.LabelFromClass(1)
	require.NoError(t, err)
	assert.Equal(t, "Fraudulent", fraud.String())
	assert.True(t, fraud.IsFraud())
	assert.Equal(t, 1, fraud.Class())

	_, err = valueobject.LabelFromClass(2)
	assert.Error(t, err)
}

func TestPredictionLabel_Equal(t *testing.T) {
	assert.True(t, valueobject.LabelFraudulent.Equal(valueobject.LabelFraudulent))
	assert.False(t, valueobject.LabelFraudulent.Equal(valueobject.LabelLegitimate))
	assert.True(t, valueobject.PredictionLabel{}.IsZero())
}
