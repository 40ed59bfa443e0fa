package bounds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
)

func floatPtr(v float64) *float64 { return &v }

func validRequest() models.EstimationRequest {
	return models.EstimationRequest{
		Age:                 floatPtr(50),
		Weight:              floatPtr(60),
		Albumin:             floatPtr(32),
		CRP:                 floatPtr(30),
		TotalBilirubin:      floatPtr(12),
		Sex:                 "Male",
		MetabolizerStatus:   "NM",
		DailyDoseMg:         floatPtr(400),
		DaysSinceInitiation: floatPtr(7),
	}
}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator(DefaultRules())
	cov, err := v.Validate(validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cov.Age != 50 || cov.DailyDoseMg != 400 {
		t.Fatalf("covariates not carried over: %+v", cov)
	}
	if cov.Sex != models.SexMale || cov.MetabolizerStatus != models.NormalMetabolizer {
		t.Fatalf("categorical fields not carried over: %+v", cov)
	}
}

func TestValidateRejectsMissingField(t *testing.T) {
	v := NewValidator(DefaultRules())
	req := validRequest()
	req.Weight = nil
	if _, err := v.Validate(req); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	v := NewValidator(DefaultRules())

	req := validRequest()
	req.Age = floatPtr(130)
	if _, err := v.Validate(req); !IsValidationError(err) {
		t.Fatalf("expected validation error for age, got %v", err)
	}

	req = validRequest()
	req.DailyDoseMg = floatPtr(5)
	if _, err := v.Validate(req); !IsValidationError(err) {
		t.Fatalf("expected validation error for dose, got %v", err)
	}
}

func TestValidateRejectsBadLabels(t *testing.T) {
	v := NewValidator(DefaultRules())

	req := validRequest()
	req.Sex = "unknown"
	if _, err := v.Validate(req); !IsValidationError(err) {
		t.Fatalf("expected validation error for sex, got %v", err)
	}

	req = validRequest()
	req.MetabolizerStatus = "UM"
	if _, err := v.Validate(req); !IsValidationError(err) {
		t.Fatalf("expected validation error for metabolizer status, got %v", err)
	}
}

func TestValidateBoundaryValuesAccepted(t *testing.T) {
	v := NewValidator(DefaultRules())
	req := validRequest()
	req.Age = floatPtr(0)
	req.DaysSinceInitiation = floatPtr(60)
	if _, err := v.Validate(req); err != nil {
		t.Fatalf("boundary values should pass: %v", err)
	}
}

func TestLoadRules(t *testing.T) {
	content := "covariates:\n  - name: age\n    min: 18\n    max: 90\n"
	path := filepath.Join(t.TempDir(), "bounds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.Covariates) != 1 || rules.Covariates[0].Max != 90 {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules.Covariates) != 7 {
		t.Fatalf("expected 7 default rules, got %d", len(rules.Covariates))
	}
}
