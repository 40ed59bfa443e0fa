package regression

import (
	"fmt"
	"math"
)

// Weights is a linear model in the form produced by the training pipeline:
// prediction = bias + sum(coefficients[i] * sample[i]).
type Weights struct {
	Bias         float64   `json:"bias"`
	Coefficients []float64 `json:"coefficients"`
}

func Predict(weights Weights, sample []float64) (float64, error) {
	if len(sample) != len(weights.Coefficients) {
		return 0, fmt.Errorf("sample has %d features, model expects %d", len(sample), len(weights.Coefficients))
	}
	sum := weights.Bias
	for i, coeff := range weights.Coefficients {
		sum += coeff * sample[i]
	}
	return sum, nil
}

// RMSE computes the root mean squared error of the model over a labeled set.
func RMSE(weights Weights, samples [][]float64, labels []float64) (float64, error) {
	if len(samples) != len(labels) {
		return 0, fmt.Errorf("have %d samples but %d labels", len(samples), len(labels))
	}
	if len(samples) == 0 {
		return 0, nil
	}
	var sum float64
	for i, sample := range samples {
		prediction, err := Predict(weights, sample)
		if err != nil {
			return 0, err
		}
		diff := prediction - labels[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(samples))), nil
}
