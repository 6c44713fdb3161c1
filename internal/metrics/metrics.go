// Package metrics provides per-frame scalar observations over the fluid
// particle snapshot, for headless runs and live telemetry panels.
package metrics

import (
	"github.com/konacodes/fluidsim/internal/fluid"
)

// Metric observes the render snapshot once per frame and reduces the
// run to a single value.
type Metric interface {
	Name() string
	Observe(t float64, view []fluid.View)
	Value() float64
	Reset()
}

// Observer receives every sampled frame, for recording or streaming.
type Observer interface {
	OnFrame(t float64, view []fluid.View)
}

// KineticEnergy averages the mean ½|v|² of the particle set across the
// observed frames (unit mass; the renderer-facing view carries no mass).
type KineticEnergy struct {
	total   float64
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(t float64, view []fluid.View) {
	if len(view) == 0 {
		return
	}
	sum := 0.0
	for _, v := range view {
		sum += 0.5 * v.Speed * v.Speed
	}
	k.last = sum / float64(len(view))
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last returns the most recent frame's value, for live sparklines.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}

// ParticleCount reports the particle count of the last observed frame.
type ParticleCount struct {
	last int
}

func NewParticleCount() *ParticleCount { return &ParticleCount{} }

func (p *ParticleCount) Name() string { return "particle_count" }

func (p *ParticleCount) Observe(t float64, view []fluid.View) {
	p.last = len(view)
}

func (p *ParticleCount) Value() float64 { return float64(p.last) }

func (p *ParticleCount) Reset() { p.last = 0 }

// MaxSpeed tracks the fastest particle seen across the whole run. A
// value pinned at the configured speed clamp indicates the tuning is
// riding the stability guard.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(t float64, view []fluid.View) {
	for _, v := range view {
		if v.Speed > m.max {
			m.max = v.Speed
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// SplashFraction averages the share of splash droplets in the
// collection, a proxy for how lively the interactions were.
type SplashFraction struct {
	total   float64
	samples int
}

func NewSplashFraction() *SplashFraction { return &SplashFraction{} }

func (s *SplashFraction) Name() string { return "splash_fraction" }

func (s *SplashFraction) Observe(t float64, view []fluid.View) {
	if len(view) == 0 {
		return
	}
	n := 0
	for _, v := range view {
		if v.Splash {
			n++
		}
	}
	s.total += float64(n) / float64(len(view))
	s.samples++
}

func (s *SplashFraction) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *SplashFraction) Reset() {
	s.total = 0
	s.samples = 0
}

// Default returns the metric set recorded by headless runs.
func Default() []Metric {
	return []Metric{
		NewParticleCount(),
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewSplashFraction(),
	}
}
