//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL string

func TestMain(m *testing.M) {
	baseURL = os.Getenv("FRAUD_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	// Wait for fraudd to be up
	for i := 0; i < 30; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func health(t *testing.T) map[string]any {
	t.Helper()
	resp, err := http.Get(baseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	body := health(t)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "model_loaded")
}

func TestPredictFlow(t *testing.T) {
	if loaded, _ := health(t)["model_loaded"].(bool); !loaded {
		t.Skip("fraudd has no model; run `fraudctl train` before starting it")
	}

	tests := []struct {
		name  string
		body  map[string]any
		fraud bool
	}{
		{name: "far online purchase", body: map[string]any{"amount": 1000, "distance": 400, "transaction_type": 0}, fraud: true},
		{name: "nearby in-store purchase", body: map[string]any{"amount": 30, "distance": 2, "transaction_type": 1}, fraud: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, "/predict", tt.body)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out struct {
				Prediction            string  `json:"prediction"`
				IsFraud               bool    `json:"is_fraud"`
				Confidence            float64 `json:"confidence"`
				FraudProbability      float64 `json:"fraud_probability"`
				LegitimateProbability float64 `json:"legitimate_probability"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.fraud, out.IsFraud)
			assert.InDelta(t, 100.0, out.FraudProbability+out.LegitimateProbability, 1e-6)
			assert.InDelta(t, max(out.FraudProbability, out.LegitimateProbability), out.Confidence, 1e-9)
		})
	}
}

func TestPredictValidation(t *testing.T) {
	if loaded, _ := health(t)["model_loaded"].(bool); !loaded {
		t.Skip("validation runs only once a model is loaded")
	}

	resp := postJSON(t, "/predict", map[string]any{"amount": -5, "distance": 1, "transaction_type": 0})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Amount must be positive", body["error"])
}

func TestPages(t *testing.T) {
	for _, path := range []string{"/", "/privacy", "/terms", "/docs", "/api"} {
		resp, err := http.Get(baseURL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func postJSON(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}
