package ode

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func decay(t float64, y, dy []complex128) {
	for i := range y {
		dy[i] = -y[i]
	}
}

func TestSolve_ExponentialDecay(t *testing.T) {
	sol, err := Solve(decay, []complex128{1}, 0, 1, Config{})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	want := complex(math.Exp(-1), 0)
	if cmplx.Abs(sol.Final[0]-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, sol.Final[0])
	}
}

func TestSolve_PhaseRotation(t *testing.T) {
	// y' = iy keeps |y| = 1 and returns to 1 after a full turn.
	rot := func(t float64, y, dy []complex128) {
		dy[0] = 1i * y[0]
	}
	sol, err := Solve(rot, []complex128{1}, 0, 2*math.Pi, Config{})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(cmplx.Abs(sol.Final[0])-1) > 1e-9 {
		t.Errorf("modulus drifted: %f", cmplx.Abs(sol.Final[0]))
	}
	if cmplx.Abs(sol.Final[0]-1) > 1e-8 {
		t.Errorf("expected return to 1 after full rotation, got %v", sol.Final[0])
	}
}

func TestSolve_KeepTrajectory(t *testing.T) {
	sol, err := Solve(decay, []complex128{1, 2}, 0, 1, Config{Keep: true})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(sol.Times) != len(sol.States) {
		t.Fatalf("times/states length mismatch: %d vs %d", len(sol.Times), len(sol.States))
	}
	if len(sol.Times) < 2 {
		t.Fatal("expected at least initial and final samples")
	}
	if sol.Times[0] != 0 {
		t.Errorf("first sample time %f, want 0", sol.Times[0])
	}
	if math.Abs(sol.Times[len(sol.Times)-1]-1) > 1e-12 {
		t.Errorf("last sample time %f, want 1", sol.Times[len(sol.Times)-1])
	}
	for i := 1; i < len(sol.Times); i++ {
		if sol.Times[i] <= sol.Times[i-1] {
			t.Fatalf("times not strictly increasing at %d", i)
		}
	}
	last := sol.States[len(sol.States)-1]
	for i := range last {
		if last[i] != sol.Final[i] {
			t.Errorf("final state disagrees with last sample at %d", i)
		}
	}
}

func TestSolve_FinalOnly(t *testing.T) {
	sol, err := Solve(decay, []complex128{1}, 0, 1, Config{})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if sol.Times != nil || sol.States != nil {
		t.Error("trajectory retained without Keep")
	}
	if len(sol.Final) != 1 {
		t.Errorf("expected final state of length 1, got %d", len(sol.Final))
	}
}

func TestSolve_Statistics(t *testing.T) {
	sol, err := Solve(decay, []complex128{1}, 0, 1, Config{})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	st := sol.Stats
	if st.Steps == 0 {
		t.Error("no accepted steps recorded")
	}
	if st.Evaluations < 6*st.Steps {
		t.Errorf("evaluation count %d too low for %d steps", st.Evaluations, st.Steps)
	}
	if st.LastStep <= 0 {
		t.Errorf("invalid last step %f", st.LastStep)
	}
}

func TestSolve_MaxSteps(t *testing.T) {
	_, err := Solve(decay, []complex128{1}, 0, 1, Config{MaxSteps: 3})
	if !errors.Is(err, ErrMaxSteps) {
		t.Errorf("expected ErrMaxSteps, got %v", err)
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		y0     []complex128
		t0, t1 float64
	}{
		{"empty state", nil, 0, 1},
		{"reversed span", []complex128{1}, 1, 0},
		{"zero span", []complex128{1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Solve(decay, tt.y0, tt.t0, tt.t1, Config{}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSolve_DoesNotMutateInitialState(t *testing.T) {
	y0 := []complex128{1, 1}
	if _, err := Solve(decay, y0, 0, 1, Config{}); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if y0[0] != 1 || y0[1] != 1 {
		t.Error("initial state mutated")
	}
}

func TestSolve_TightTolerance(t *testing.T) {
	loose, err := Solve(decay, []complex128{1}, 0, 1, Config{AbsTol: 1e-4, RelTol: 1e-4})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	tight, err := Solve(decay, []complex128{1}, 0, 1, Config{AbsTol: 1e-12, RelTol: 1e-12})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if tight.Stats.Steps <= loose.Stats.Steps {
		t.Errorf("tighter tolerance should take more steps: %d vs %d",
			tight.Stats.Steps, loose.Stats.Steps)
	}
	want := math.Exp(-1)
	looseErr := cmplx.Abs(loose.Final[0] - complex(want, 0))
	tightErr := cmplx.Abs(tight.Final[0] - complex(want, 0))
	if tightErr > looseErr {
		t.Errorf("tighter tolerance less accurate: %e vs %e", tightErr, looseErr)
	}
}
