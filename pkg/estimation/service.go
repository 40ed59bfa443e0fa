package estimation

import (
	"context"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/features"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/model"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/pk"
)

// steadyStateDays is the clinical threshold for near-steady-state sampling.
// Policy constant, not derived from the models.
const steadyStateDays = 7.0

// minConcentration floors the calibrated output, mirroring the clearance
// floor in the back-calculation.
const minConcentration = 0.1

// Service runs the estimation pipeline: feature assembly, clearance
// prediction, PK back-calculation, calibration. Stateless per request; the
// regressors are loaded once and read-only.
type Service struct {
	clearance  model.Regressor
	calibrator model.Regressor
}

func NewService(clearance, calibrator model.Regressor) *Service {
	return &Service{clearance: clearance, calibrator: calibrator}
}

// Estimate runs the full pipeline for one patient. Any stage error aborts
// the estimation; there is no partial result.
func (s *Service) Estimate(ctx context.Context, cov models.PatientCovariates) (models.EstimationResult, error) {
	vector, err := features.Assemble(cov)
	if err != nil {
		return models.EstimationResult{}, err
	}

	clearance, err := s.clearance.Predict(vector)
	if err != nil {
		return models.EstimationResult{}, err
	}

	theoretical := pk.TheoreticalConcentration(cov.DailyDoseMg, clearance)

	calibrated, err := s.calibrator.Predict([]float64{theoretical})
	if err != nil {
		return models.EstimationResult{}, err
	}
	if calibrated < minConcentration {
		calibrated = minConcentration
	}

	advisory := models.NearSteadyState
	if cov.DaysSinceInitiation < steadyStateDays {
		advisory = models.BeforeSteadyState
	}

	return models.EstimationResult{
		PredictedClearance:       clearance,
		TheoreticalConcentration: theoretical,
		CalibratedConcentration:  calibrated,
		SteadyStateAdvisory:      advisory,
	}, nil
}
