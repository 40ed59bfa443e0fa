package bounds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Rule bounds one numeric covariate, matching the ranges offered by the
// collection form.
type Rule struct {
	Name string  `yaml:"name" json:"name"`
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
}

type Ruleset struct {
	Covariates []Rule `yaml:"covariates" json:"covariates"`
}

func LoadRules(path string) (Ruleset, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var rules Ruleset
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return Ruleset{}, err
	}

	if len(rules.Covariates) == 0 {
		return Ruleset{}, errors.New("no covariate bounds configured")
	}

	return rules, nil
}

func DefaultRules() Ruleset {
	return Ruleset{Covariates: []Rule{
		{Name: "age", Min: 0, Max: 120},
		{Name: "weight", Min: 1, Max: 200},
		{Name: "albumin", Min: 5, Max: 60},
		{Name: "crp", Min: 0, Max: 300},
		{Name: "total_bilirubin", Min: 0, Max: 500},
		{Name: "daily_dose_mg", Min: 10, Max: 800},
		{Name: "days_since_initiation", Min: 0, Max: 60},
	}}
}

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validator checks a raw estimation request against the bounds ruleset and
// produces validated covariates. The pipeline downstream trusts this layer
// and does not re-check ranges.
type Validator struct {
	rules map[string]Rule
}

func NewValidator(rules Ruleset) *Validator {
	byName := make(map[string]Rule, len(rules.Covariates))
	for _, rule := range rules.Covariates {
		byName[rule.Name] = rule
	}
	return &Validator{rules: byName}
}

func (v *Validator) Validate(req models.EstimationRequest) (models.PatientCovariates, error) {
	var cov models.PatientCovariates

	numerics := []struct {
		name  string
		value *float64
		dst   *float64
	}{
		{"age", req.Age, &cov.Age},
		{"weight", req.Weight, &cov.Weight},
		{"albumin", req.Albumin, &cov.Albumin},
		{"crp", req.CRP, &cov.CRP},
		{"total_bilirubin", req.TotalBilirubin, &cov.TotalBilirubin},
		{"daily_dose_mg", req.DailyDoseMg, &cov.DailyDoseMg},
		{"days_since_initiation", req.DaysSinceInitiation, &cov.DaysSinceInitiation},
	}

	for _, field := range numerics {
		if field.value == nil {
			return cov, ValidationError{reason: fmt.Errorf("%s is required", field.name)}
		}
		if rule, ok := v.rules[field.name]; ok {
			if *field.value < rule.Min || *field.value > rule.Max {
				return cov, ValidationError{reason: fmt.Errorf(
					"%s %v outside [%v, %v]", field.name, *field.value, rule.Min, rule.Max)}
			}
		}
		*field.dst = *field.value
	}

	switch models.Sex(req.Sex) {
	case models.SexMale, models.SexFemale:
		cov.Sex = models.Sex(req.Sex)
	default:
		return cov, ValidationError{reason: fmt.Errorf("sex must be %q or %q", models.SexMale, models.SexFemale)}
	}

	switch models.MetabolizerStatus(req.MetabolizerStatus) {
	case models.NormalMetabolizer, models.IntermediateMetabolizer, models.PoorMetabolizer:
		cov.MetabolizerStatus = models.MetabolizerStatus(req.MetabolizerStatus)
	default:
		return cov, ValidationError{reason: fmt.Errorf("metabolizer_status must be one of NM, IM, PM")}
	}

	return cov, nil
}
