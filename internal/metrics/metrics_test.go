package metrics

import (
	"math"
	"testing"
)

func TestExcitation(t *testing.T) {
	y := []complex128{3 + 4i, 1, 0, -1}
	if got := Excitation(y, 2); math.Abs(got-26) > 1e-12 {
		t.Errorf("expected 26, got %f", got)
	}
	// mean-field layout: inversion entries excluded
	if got := Excitation(y, 4); math.Abs(got-27) > 1e-12 {
		t.Errorf("expected 27, got %f", got)
	}
}

func TestExcitedPopulation(t *testing.T) {
	m := NewExcitedPopulation(1)
	if m.Value() != 0 {
		t.Error("expected zero before observations")
	}
	m.Observe([]complex128{1}, 0)
	m.Observe([]complex128{complex(math.Sqrt(3), 0)}, 1)
	if got := m.Value(); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected mean 2, got %f", got)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear")
	}
}

func TestPeakExcitation(t *testing.T) {
	m := NewPeakExcitation(1)
	m.Observe([]complex128{0.5}, 0)
	m.Observe([]complex128{2}, 1)
	m.Observe([]complex128{1}, 2)
	if got := m.Value(); math.Abs(got-4) > 1e-12 {
		t.Errorf("expected peak 4, got %f", got)
	}
}

func TestInversion(t *testing.T) {
	m := NewInversion(2)
	m.Observe([]complex128{0, 0, -1, -1}, 0)
	m.Observe([]complex128{0, 0, -0.5, 0.5}, 1)
	if got := m.Value(); math.Abs(got) > 1e-12 {
		t.Errorf("expected last mean inversion 0, got %f", got)
	}

	// scalar-length states are ignored
	m.Reset()
	m.Observe([]complex128{1, 1}, 0)
	if m.Value() != 0 {
		t.Error("short state should not update inversion")
	}
}

func TestMetricNames(t *testing.T) {
	names := map[string]Metric{
		"excited_population": NewExcitedPopulation(1),
		"peak_excitation":    NewPeakExcitation(1),
		"mean_inversion":     NewInversion(1),
	}
	for want, m := range names {
		if m.Name() != want {
			t.Errorf("expected name %s, got %s", want, m.Name())
		}
	}
}
