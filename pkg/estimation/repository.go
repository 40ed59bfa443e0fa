package estimation

import (
	"context"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EstimationLog is the persistence model for completed estimations.
type EstimationLog struct {
	ID                       uuid.UUID         `gorm:"primaryKey;column:id"`
	Covariates               datatypes.JSONMap `gorm:"column:covariates"`
	PredictedClearance       float64           `gorm:"column:predicted_clearance"`
	TheoreticalConcentration float64           `gorm:"column:theoretical_concentration"`
	CalibratedConcentration  float64           `gorm:"column:calibrated_concentration"`
	SteadyStateAdvisory      string            `gorm:"column:steady_state_advisory"`
	ModelVersion             string            `gorm:"column:model_version"`
	LatencyMs                float64           `gorm:"column:latency_ms"`
	CreatedAt                time.Time         `gorm:"column:created_at"`
}

// TableName overrides gorm naming.
func (EstimationLog) TableName() string {
	return "estimation_logs"
}

// Repository handles estimation log queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&EstimationLog{})
}

func (r *Repository) RecordEstimation(ctx context.Context, id uuid.UUID, cov models.PatientCovariates, result models.EstimationResult, modelVersion string, latency time.Duration) error {
	log := EstimationLog{
		ID: id,
		Covariates: datatypes.JSONMap{
			"age":                   cov.Age,
			"weight":                cov.Weight,
			"albumin":               cov.Albumin,
			"crp":                   cov.CRP,
			"total_bilirubin":       cov.TotalBilirubin,
			"sex":                   string(cov.Sex),
			"metabolizer_status":    string(cov.MetabolizerStatus),
			"daily_dose_mg":         cov.DailyDoseMg,
			"days_since_initiation": cov.DaysSinceInitiation,
		},
		PredictedClearance:       result.PredictedClearance,
		TheoreticalConcentration: result.TheoreticalConcentration,
		CalibratedConcentration:  result.CalibratedConcentration,
		SteadyStateAdvisory:      string(result.SteadyStateAdvisory),
		ModelVersion:             modelVersion,
		LatencyMs:                float64(latency.Microseconds()) / 1000.0,
		CreatedAt:                time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&log).Error
}

// Recent returns the most recent estimation logs up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]EstimationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []EstimationLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
