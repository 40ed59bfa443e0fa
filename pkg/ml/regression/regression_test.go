package regression

import (
	"math"
	"testing"
)

func TestPredict(t *testing.T) {
	weights := Weights{Bias: 1.5, Coefficients: []float64{2, -0.5}}
	got, err := Predict(weights, []float64{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5.5 {
		t.Fatalf("expected 5.5, got %v", got)
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	weights := Weights{Coefficients: []float64{1, 2, 3}}
	if _, err := Predict(weights, []float64{1}); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestRMSE(t *testing.T) {
	weights := Weights{Bias: 0, Coefficients: []float64{1}}
	samples := [][]float64{{1}, {2}, {3}}
	labels := []float64{2, 3, 4}
	rmse, err := RMSE(weights, samples, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rmse-1) > 1e-12 {
		t.Fatalf("expected RMSE 1, got %v", rmse)
	}
}
