package fluid

import "math"

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X, Y, W, H float64
}

var (
	waterColor  = Color{R: 0.22, G: 0.55, B: 0.95, A: 0.9}
	splashColor = Color{R: 0.55, G: 0.78, B: 1.0, A: 1.0}
)

// AddParticle inserts one particle. Splash particles get a finite
// lifespan and are garbage-collected when it runs out; body particles
// live until the simulator is discarded.
func (s *Simulator) AddParticle(pos, vel Vec2, splash bool) {
	p := Particle{
		Pos:         pos,
		Vel:         vel,
		PrevPos:     pos,
		Mass:        s.P.ParticleMass,
		RestDensity: s.P.RestDensity,
		Size:        s.P.ParticleSize,
		Color:       waterColor,
		Lifespan:    -1,
	}
	if splash {
		p.Splash = true
		p.Color = splashColor
		p.Size = s.P.ParticleSize * (0.5 + s.rng.Float64()*0.5)
		p.Lifespan = 40 + s.rng.Intn(50)
	}
	s.Particles = append(s.Particles, p)
}

// CreateWaterBlock bulk-inserts a grid of body particles covering rect
// at the given spacing, with a small per-particle jitter so the block
// does not start in an unstable perfect lattice.
func (s *Simulator) CreateWaterBlock(rect Rect, spacing float64) {
	if spacing <= 0 {
		return
	}
	jitter := spacing * 0.1
	for x := rect.X; x < rect.X+rect.W; x += spacing {
		for y := rect.Y; y < rect.Y+rect.H; y += spacing {
			pos := Vec2{
				X: x + (s.rng.Float64()-0.5)*jitter,
				Y: y + (s.rng.Float64()-0.5)*jitter,
			}
			s.AddParticle(pos, Vec2{}, false)
		}
	}
}

// CreateSplash inserts a burst of short-lived droplets at origin and
// registers a wave origin so the impact keeps rippling outward.
// Intensity 1 is a full-force splash; the droplet counts follow
// floor(12+18·intensity) primary + floor(6+8·intensity) secondary.
func (s *Simulator) CreateSplash(origin Vec2, intensity float64) {
	s.splashBurst(origin, intensity)
	s.addWaveOrigin(origin, math.Min(1, 0.4+0.6*intensity))
}

// splashBurst spawns the droplets without registering a wave origin;
// boundary impacts call it directly after adding their own origin.
func (s *Simulator) splashBurst(origin Vec2, intensity float64) {
	// Primary burst: a tight upward arc.
	primary := int(12 + intensity*18)
	for i := 0; i < primary; i++ {
		angle := -math.Pi/2 + (s.rng.Float64()-0.5)*1.2
		speed := 140 + s.rng.Float64()*220*intensity
		vel := Vec2{math.Cos(angle), math.Sin(angle)}.Scale(speed)
		s.AddParticle(origin, vel, true)
	}

	// Secondary burst: fewer, slower droplets over a wider spread.
	secondary := int(6 + intensity*8)
	for i := 0; i < secondary; i++ {
		angle := -math.Pi/2 + (s.rng.Float64()-0.5)*2.4
		speed := 60 + s.rng.Float64()*120*intensity
		vel := Vec2{math.Cos(angle), math.Sin(angle)}.Scale(speed)
		s.AddParticle(origin, vel, true)
	}
}

// CreateRipple kicks nearby existing particles radially away from
// origin and registers a wave origin. Unlike a splash it inserts no new
// particles; it is the externally-triggered twin of a boundary-impact
// ripple.
func (s *Simulator) CreateRipple(origin Vec2, strength float64) {
	// Full scan rather than a grid query: the grid is only valid
	// mid-step, and ripples can be triggered before any step has run.
	radius := s.P.PointerRadius
	for j := range s.Particles {
		p := &s.Particles[j]
		offset := p.Pos.Sub(origin)
		dist := offset.Len()
		if dist < Epsilon || dist >= radius {
			continue
		}
		kick := strength * (1 - dist/radius)
		p.Vel = p.Vel.Add(offset.Norm().Scale(kick))
	}
	s.addWaveOrigin(origin, math.Min(1, strength/s.P.MaxSpeed*4))
}
