package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/duit-aim/vcz-estimator/pkg/ml/regression"
)

var (
	// ErrUnavailable means an artifact could not be loaded. Fatal at startup.
	ErrUnavailable = errors.New("model artifact unavailable")
	// ErrInference means a loaded model failed to produce a prediction.
	ErrInference = errors.New("model inference failed")
)

// Regressor is the contract both external models are used through, so the
// pipeline can be exercised with stubs.
type Regressor interface {
	Predict(sample []float64) (float64, error)
}

// Artifact is the on-disk JSON shape exported by the training pipeline.
type Artifact struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Model   struct {
		Type         string             `json:"type"`
		Algorithm    string             `json:"algorithm"`
		FeatureNames []string           `json:"feature_names"`
		Weights      regression.Weights `json:"weights"`
	} `json:"model"`
}

func LoadArtifact(path string) (*Artifact, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	var artifact Artifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	if len(artifact.Model.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: %s: artifact missing feature names", ErrUnavailable, path)
	}
	if len(artifact.Model.Weights.Coefficients) != len(artifact.Model.FeatureNames) {
		return nil, fmt.Errorf("%w: %s: %d coefficients for %d features",
			ErrUnavailable, path, len(artifact.Model.Weights.Coefficients), len(artifact.Model.FeatureNames))
	}

	return &artifact, nil
}

func (a *Artifact) Predict(sample []float64) (float64, error) {
	value, err := regression.Predict(a.Model.Weights, sample)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInference, a.Name, err)
	}
	return value, nil
}

func (a *Artifact) Descriptor() models.ModelDescriptor {
	names := make([]string, len(a.Model.FeatureNames))
	copy(names, a.Model.FeatureNames)
	return models.ModelDescriptor{
		Name:         a.Name,
		Version:      a.Version,
		Algorithm:    a.Model.Algorithm,
		FeatureNames: names,
	}
}
