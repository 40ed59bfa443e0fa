package model

import (
	"fmt"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/features"
)

// Registry holds the two artifacts loaded at process start. It is read-only
// after construction, so concurrent estimations share it without locking.
type Registry struct {
	clearance  *Artifact
	calibrator *Artifact
}

// NewRegistry loads and validates both artifacts. Any failure here is fatal:
// the estimator has no degraded mode.
func NewRegistry(clearancePath, calibratorPath string) (*Registry, error) {
	clearance, err := LoadArtifact(clearancePath)
	if err != nil {
		return nil, err
	}
	if err := checkFeatureContract(clearance); err != nil {
		return nil, err
	}

	calibrator, err := LoadArtifact(calibratorPath)
	if err != nil {
		return nil, err
	}
	if len(calibrator.Model.FeatureNames) != 1 {
		return nil, fmt.Errorf("%w: %s: calibrator must be univariate, has %d features",
			ErrUnavailable, calibratorPath, len(calibrator.Model.FeatureNames))
	}

	return &Registry{clearance: clearance, calibrator: calibrator}, nil
}

// checkFeatureContract rejects any artifact whose column order differs from
// the assembler's. A transposed column would not fail at inference time, it
// would silently corrupt every prediction.
func checkFeatureContract(artifact *Artifact) error {
	names := artifact.Model.FeatureNames
	if len(names) != len(features.Names) {
		return fmt.Errorf("%w: %s: expected %d features, artifact has %d",
			ErrUnavailable, artifact.Name, len(features.Names), len(names))
	}
	for i, name := range names {
		idx, err := features.Index(name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, artifact.Name, err)
		}
		if idx != i {
			return fmt.Errorf("%w: %s: feature %q is at position %d, expected %d",
				ErrUnavailable, artifact.Name, name, i, idx)
		}
	}
	return nil
}

func (r *Registry) Clearance() Regressor { return r.clearance }

func (r *Registry) Calibrator() Regressor { return r.calibrator }

func (r *Registry) Descriptors() []models.ModelDescriptor {
	return []models.ModelDescriptor{
		r.clearance.Descriptor(),
		r.calibrator.Descriptor(),
	}
}

// Version identifies the loaded model pair in API responses and audit logs.
func (r *Registry) Version() string {
	return fmt.Sprintf("%s/%s", r.clearance.Version, r.calibrator.Version)
}
