// Package pk holds the closed-form pharmacokinetic relations used by the
// estimator.
package pk

const (
	hoursPerDay = 24.0

	// MinClearance floors the denominator so a degenerate clearance
	// prediction cannot produce an infinite or negative concentration.
	MinClearance = 0.1
)

// TheoreticalConcentration is the steady-state average concentration
// Css_avg = dose rate / CL, with the daily dose normalized to mg/h.
func TheoreticalConcentration(dailyDoseMg, clearanceLPerH float64) float64 {
	cl := clearanceLPerH
	if cl < MinClearance {
		cl = MinClearance
	}
	return dailyDoseMg / (hoursPerDay * cl)
}
