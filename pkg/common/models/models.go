package models

import (
	"time"
)

// Sex labels as collected from the clinician-facing form.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// MetabolizerStatus is the CYP2C19 phenotype classification.
type MetabolizerStatus string

const (
	NormalMetabolizer       MetabolizerStatus = "NM"
	IntermediateMetabolizer MetabolizerStatus = "IM"
	PoorMetabolizer         MetabolizerStatus = "PM"
)

// PatientCovariates is the validated input to one estimation. Units:
// Age years, Weight kg, Albumin g/L, CRP mg/L, TotalBilirubin µmol/L,
// DailyDoseMg mg/day, DaysSinceInitiation days.
type PatientCovariates struct {
	Age                 float64           `json:"age"`
	Weight              float64           `json:"weight"`
	Albumin             float64           `json:"albumin"`
	CRP                 float64           `json:"crp"`
	TotalBilirubin      float64           `json:"total_bilirubin"`
	Sex                 Sex               `json:"sex"`
	MetabolizerStatus   MetabolizerStatus `json:"metabolizer_status"`
	DailyDoseMg         float64           `json:"daily_dose_mg"`
	DaysSinceInitiation float64           `json:"days_since_initiation"`
}

// Advisory flags whether the sampling time is consistent with the
// near-steady-state conditions the calibrator was developed under.
type Advisory string

const (
	BeforeSteadyState Advisory = "before_steady_state"
	NearSteadyState   Advisory = "near_steady_state"
)

// EstimationResult is the output triple of the pipeline plus the advisory.
type EstimationResult struct {
	PredictedClearance       float64  `json:"predicted_clearance"`
	TheoreticalConcentration float64  `json:"theoretical_concentration"`
	CalibratedConcentration  float64  `json:"calibrated_concentration"`
	SteadyStateAdvisory      Advisory `json:"steady_state_advisory"`
}

// EstimationRequest is the wire shape of POST /api/v1/estimations.
// Numeric covariates are pointers so a missing field is distinguishable
// from a zero value.
type EstimationRequest struct {
	Age                 *float64 `json:"age"`
	Weight              *float64 `json:"weight"`
	Albumin             *float64 `json:"albumin"`
	CRP                 *float64 `json:"crp"`
	TotalBilirubin      *float64 `json:"total_bilirubin"`
	Sex                 string   `json:"sex"`
	MetabolizerStatus   string   `json:"metabolizer_status"`
	DailyDoseMg         *float64 `json:"daily_dose_mg"`
	DaysSinceInitiation *float64 `json:"days_since_initiation"`
}

type EstimationResponse struct {
	RequestID                string   `json:"request_id"`
	PredictedClearance       float64  `json:"predicted_clearance"`
	TheoreticalConcentration float64  `json:"theoretical_concentration"`
	CalibratedConcentration  float64  `json:"calibrated_concentration"`
	SteadyStateAdvisory      Advisory `json:"steady_state_advisory"`
	ModelVersion             string   `json:"model_version"`
	LatencyMs                float64  `json:"latency_ms"`
	Cached                   bool     `json:"cached"`
}

// ModelDescriptor describes a loaded artifact for GET /api/v1/models.
type ModelDescriptor struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Algorithm    string   `json:"algorithm"`
	FeatureNames []string `json:"feature_names"`
}

// Event is the envelope published to the audit topic.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Audit event types.
const (
	EventEstimationCompleted = "estimation.completed"
	EventEstimationRejected  = "estimation.rejected"
)
