package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/estimations", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req models.EstimationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.DailyDoseMg)

		json.NewEncoder(w).Encode(models.EstimationResponse{
			RequestID:               "abc",
			PredictedClearance:      3.2,
			CalibratedConcentration: 2.1,
			SteadyStateAdvisory:     models.NearSteadyState,
		})
	}))
	defer server.Close()

	dose := 400.0
	c := New(server.URL, 2*time.Second).WithToken("secret")
	resp, err := c.Estimate(context.Background(), models.EstimationRequest{DailyDoseMg: &dose})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.RequestID)
	assert.Equal(t, 3.2, resp.PredictedClearance)
}

func TestEstimateSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "age 150 outside [0, 120]", http.StatusBadRequest)
	}))
	defer server.Close()

	c := New(server.URL, 2*time.Second)
	_, err := c.Estimate(context.Background(), models.EstimationRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "outside")
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/models", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []models.ModelDescriptor{{Name: "vcz-clearance", Version: "2024.06"}},
		})
	}))
	defer server.Close()

	c := New(server.URL, 2*time.Second)
	descriptors, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "vcz-clearance", descriptors[0].Name)
}
