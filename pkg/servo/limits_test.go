package servo

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(200, 0, 180); got != 180 {
		t.Errorf("Clamp(200) = %v, want 180", got)
	}
	if got := Clamp(-5, 0, 180); got != 0 {
		t.Errorf("Clamp(-5) = %v, want 0", got)
	}
	if got := Clamp(90, 0, 180); got != 90 {
		t.Errorf("Clamp(90) = %v, want 90", got)
	}
}

func TestMapRange(t *testing.T) {
	// Midpoint maps to midpoint, inverted or not.
	if got := MapRange(0.5, 0, 1, 57, 145); got != 101 {
		t.Errorf("MapRange midpoint = %v, want 101", got)
	}
	if got := MapRange(0.5, 0, 1, 145, 57); got != 101 {
		t.Errorf("inverted MapRange midpoint = %v, want 101", got)
	}

	// Endpoints.
	if got := MapRange(0, 0, 1, 145, 57); got != 145 {
		t.Errorf("inverted MapRange(0) = %v, want 145", got)
	}
	if got := MapRange(1, 0, 1, 145, 57); got != 57 {
		t.Errorf("inverted MapRange(1) = %v, want 57", got)
	}

	// Degenerate input range must not divide by zero.
	if got := MapRange(5, 3, 3, 0, 100); got != 0 {
		t.Errorf("degenerate MapRange = %v, want 0", got)
	}
}

func TestStepToward(t *testing.T) {
	if got := StepToward(0, 100, 20); got != 20 {
		t.Errorf("opening step = %v, want 20", got)
	}
	if got := StepToward(100, 0, 30); got != 70 {
		t.Errorf("closing step = %v, want 70", got)
	}
	// Never overshoots.
	if got := StepToward(95, 100, 20); got != 100 {
		t.Errorf("overshoot up = %v, want 100", got)
	}
	if got := StepToward(5, 0, 20); got != 0 {
		t.Errorf("overshoot down = %v, want 0", got)
	}
}

func TestSignificant(t *testing.T) {
	if Significant(90, 91, 2) {
		t.Error("1 degree delta should be suppressed at threshold 2")
	}
	if !Significant(90, 92, 2) {
		t.Error("2 degree delta should pass at threshold 2")
	}
	if !Significant(92, 90, 2) {
		t.Error("negative delta should pass symmetrically")
	}
}
