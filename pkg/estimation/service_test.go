package estimation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRegressor substitutes an external model with a fixed output, recording
// the sample it was called with.
type stubRegressor struct {
	output float64
	err    error
	sample []float64
}

func (s *stubRegressor) Predict(sample []float64) (float64, error) {
	s.sample = append([]float64(nil), sample...)
	if s.err != nil {
		return 0, s.err
	}
	return s.output, nil
}

func referenceCovariates() models.PatientCovariates {
	return models.PatientCovariates{
		Age:                 50,
		Weight:              60,
		Albumin:             32,
		CRP:                 30,
		TotalBilirubin:      12,
		Sex:                 models.SexMale,
		MetabolizerStatus:   models.NormalMetabolizer,
		DailyDoseMg:         400,
		DaysSinceInitiation: 7,
	}
}

func TestEstimateReferenceScenario(t *testing.T) {
	clearance := &stubRegressor{output: 3.2}
	calibrator := &stubRegressor{output: 2.1}
	svc := NewService(clearance, calibrator)

	result, err := svc.Estimate(context.Background(), referenceCovariates())
	require.NoError(t, err)

	assert.Equal(t, []float64{30, 32, 1, 50, 1, 12, 60}, clearance.sample)
	assert.Equal(t, 3.2, result.PredictedClearance)
	assert.InDelta(t, 400.0/(24.0*3.2), result.TheoreticalConcentration, 1e-12)
	assert.Equal(t, []float64{result.TheoreticalConcentration}, calibrator.sample)
	assert.Equal(t, 2.1, result.CalibratedConcentration)
	assert.Equal(t, models.NearSteadyState, result.SteadyStateAdvisory)
}

func TestEstimateAdvisoryBoundary(t *testing.T) {
	svc := NewService(&stubRegressor{output: 3.2}, &stubRegressor{output: 2.1})

	cov := referenceCovariates()
	cov.DaysSinceInitiation = 6.999
	result, err := svc.Estimate(context.Background(), cov)
	require.NoError(t, err)
	assert.Equal(t, models.BeforeSteadyState, result.SteadyStateAdvisory)

	cov.DaysSinceInitiation = 7.0
	result, err = svc.Estimate(context.Background(), cov)
	require.NoError(t, err)
	assert.Equal(t, models.NearSteadyState, result.SteadyStateAdvisory)
}

func TestEstimateAdvisoryDoesNotChangeNumbers(t *testing.T) {
	svc := NewService(&stubRegressor{output: 3.2}, &stubRegressor{output: 2.1})

	early := referenceCovariates()
	early.DaysSinceInitiation = 3
	late := referenceCovariates()

	earlyResult, err := svc.Estimate(context.Background(), early)
	require.NoError(t, err)
	lateResult, err := svc.Estimate(context.Background(), late)
	require.NoError(t, err)

	assert.Equal(t, lateResult.PredictedClearance, earlyResult.PredictedClearance)
	assert.Equal(t, lateResult.TheoreticalConcentration, earlyResult.TheoreticalConcentration)
	assert.Equal(t, lateResult.CalibratedConcentration, earlyResult.CalibratedConcentration)
	assert.Equal(t, models.BeforeSteadyState, earlyResult.SteadyStateAdvisory)
}

func TestEstimateZeroClearanceFloored(t *testing.T) {
	svc := NewService(&stubRegressor{output: 0}, &stubRegressor{output: 2.1})

	result, err := svc.Estimate(context.Background(), referenceCovariates())
	require.NoError(t, err)
	assert.True(t, math.Abs(result.TheoreticalConcentration-400.0/2.4) < 1e-9,
		"expected floored concentration, got %v", result.TheoreticalConcentration)
}

func TestEstimateCalibratedFloor(t *testing.T) {
	svc := NewService(&stubRegressor{output: 3.2}, &stubRegressor{output: -0.4})

	result, err := svc.Estimate(context.Background(), referenceCovariates())
	require.NoError(t, err)
	assert.Equal(t, 0.1, result.CalibratedConcentration)
}

func TestEstimateAbortsOnClearanceError(t *testing.T) {
	boom := errors.New("inference failed")
	calibrator := &stubRegressor{output: 2.1}
	svc := NewService(&stubRegressor{err: boom}, calibrator)

	_, err := svc.Estimate(context.Background(), referenceCovariates())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, calibrator.sample, "calibrator must not run after a clearance failure")
}

func TestEstimateAbortsOnCalibratorError(t *testing.T) {
	boom := errors.New("inference failed")
	svc := NewService(&stubRegressor{output: 3.2}, &stubRegressor{err: boom})

	_, err := svc.Estimate(context.Background(), referenceCovariates())
	require.ErrorIs(t, err, boom)
}

func TestEstimateAbortsOnMissingFeature(t *testing.T) {
	clearance := &stubRegressor{output: 3.2}
	svc := NewService(clearance, &stubRegressor{output: 2.1})

	cov := referenceCovariates()
	cov.MetabolizerStatus = ""
	_, err := svc.Estimate(context.Background(), cov)
	require.ErrorIs(t, err, features.ErrMissingFeature)
	assert.Nil(t, clearance.sample, "clearance model must not run without a full vector")
}
