package pk

import (
	"math"
	"testing"
)

func TestTheoreticalConcentration(t *testing.T) {
	got := TheoreticalConcentration(400, 2.0)
	want := 400.0 / 48.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestClearanceFloor(t *testing.T) {
	floored := 400.0 / 2.4
	cases := []float64{0, -1.5, 0.05, 0.1}
	for _, clearance := range cases {
		got := TheoreticalConcentration(400, clearance)
		if math.Abs(got-floored) > 1e-9 {
			t.Fatalf("clearance %v: expected %v, got %v", clearance, floored, got)
		}
	}
}

func TestAboveFloorUnclamped(t *testing.T) {
	got := TheoreticalConcentration(400, 0.11)
	if got >= 400.0/2.4 {
		t.Fatalf("clearance above floor should not be clamped, got %v", got)
	}
}
