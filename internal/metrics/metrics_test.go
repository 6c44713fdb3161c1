package metrics

import (
	"math"
	"testing"

	"github.com/konacodes/fluidsim/internal/fluid"
)

func view(speeds []float64, splash []bool) []fluid.View {
	vs := make([]fluid.View, len(speeds))
	for i := range speeds {
		vs[i] = fluid.View{Speed: speeds[i], Splash: splash[i]}
	}
	return vs
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(0, view([]float64{2, 4}, []bool{false, false}))

	// mean of ½·4 and ½·16
	want := (2.0 + 8.0) / 2
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, m.Value())
	}
	if m.Last() != want {
		t.Errorf("Last: expected %g, got %g", want, m.Last())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestKineticEnergyEmptyFrame(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe(0, nil)
	if m.Value() != 0 {
		t.Errorf("empty frame should not contribute, got %g", m.Value())
	}
}

func TestParticleCount(t *testing.T) {
	m := NewParticleCount()
	m.Observe(0, view([]float64{1, 2, 3}, []bool{false, false, false}))
	m.Observe(1, view([]float64{1}, []bool{false}))

	if m.Value() != 1 {
		t.Errorf("expected last count 1, got %g", m.Value())
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	m.Observe(0, view([]float64{5, 80, 3}, []bool{false, false, false}))
	m.Observe(1, view([]float64{40}, []bool{false}))

	if m.Value() != 80 {
		t.Errorf("expected 80, got %g", m.Value())
	}
}

func TestSplashFraction(t *testing.T) {
	m := NewSplashFraction()
	m.Observe(0, view([]float64{1, 1, 1, 1}, []bool{true, false, false, false}))
	m.Observe(1, view([]float64{1, 1}, []bool{true, true}))

	want := (0.25 + 1.0) / 2
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, m.Value())
	}
}

func TestDefaultSetNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 default metrics, got %d", len(seen))
	}
}
