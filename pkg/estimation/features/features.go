package features

import (
	"errors"
	"fmt"

	"github.com/duit-aim/vcz-estimator/pkg/common/models"
)

// ErrMissingFeature is returned when a covariate required by the clearance
// model cannot be assembled.
var ErrMissingFeature = errors.New("missing feature")

// Names is the exact column order the clearance model was trained on.
// The model has no way to detect a transposed column, so this order must
// never change independently of the artifact.
var Names = []string{"CRP", "ALB", "GenotypingValue", "Age", "Sex", "TBIL", "Weight"}

// Encodings fixed by the training contract.
var (
	sexCodes = map[models.Sex]float64{
		models.SexMale:   1,
		models.SexFemale: 2,
	}
	metabolizerCodes = map[models.MetabolizerStatus]float64{
		models.NormalMetabolizer:       1,
		models.IntermediateMetabolizer: 2,
		models.PoorMetabolizer:         3,
	}
)

// EncodeSex maps a sex label onto its trained numeric code.
func EncodeSex(sex models.Sex) (float64, error) {
	code, ok := sexCodes[sex]
	if !ok {
		return 0, fmt.Errorf("%w: sex %q", ErrMissingFeature, sex)
	}
	return code, nil
}

// EncodeMetabolizer maps a CYP2C19 phenotype label onto its trained numeric code.
func EncodeMetabolizer(status models.MetabolizerStatus) (float64, error) {
	code, ok := metabolizerCodes[status]
	if !ok {
		return 0, fmt.Errorf("%w: metabolizer status %q", ErrMissingFeature, status)
	}
	return code, nil
}

// DecodeSex recovers the label from an encoded value.
func DecodeSex(code float64) (models.Sex, error) {
	for label, c := range sexCodes {
		if c == code {
			return label, nil
		}
	}
	return "", fmt.Errorf("unknown sex code %v", code)
}

// DecodeMetabolizer recovers the label from an encoded value.
func DecodeMetabolizer(code float64) (models.MetabolizerStatus, error) {
	for label, c := range metabolizerCodes {
		if c == code {
			return label, nil
		}
	}
	return "", fmt.Errorf("unknown metabolizer code %v", code)
}

// Assemble builds the ordered feature vector for the clearance model from
// patient covariates. Positions correspond one-to-one with Names.
func Assemble(cov models.PatientCovariates) ([]float64, error) {
	sex, err := EncodeSex(cov.Sex)
	if err != nil {
		return nil, err
	}
	geno, err := EncodeMetabolizer(cov.MetabolizerStatus)
	if err != nil {
		return nil, err
	}

	byName := map[string]float64{
		"CRP":             cov.CRP,
		"ALB":             cov.Albumin,
		"GenotypingValue": geno,
		"Age":             cov.Age,
		"Sex":             sex,
		"TBIL":            cov.TotalBilirubin,
		"Weight":          cov.Weight,
	}

	vector := make([]float64, len(Names))
	for idx, name := range Names {
		value, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		vector[idx] = value
	}
	return vector, nil
}

// Index returns the position of a named feature in the assembled vector.
func Index(name string) (int, error) {
	for idx, n := range Names {
		if n == name {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrMissingFeature, name)
}
