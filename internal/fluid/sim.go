package fluid

import (
	"math"
	"math/rand"
)

// Simulator owns the particle collection and advances it one fixed
// timestep per Step call. It is driven by an external scheduler
// (nominally 60 Hz); the internal dt is a constant deliberately
// decoupled from wall-clock time, so a slow host runs the fluid in
// apparent slow motion rather than exploding.
type Simulator struct {
	P Params

	Particles []Particle

	grid    *Grid
	kernel  Kernel
	waves   []WaveOrigin
	pointer Pointer

	width  float64
	height float64

	now   float64 // simulation seconds, advances by Dt per step
	frame int

	rng *rand.Rand

	// per-step scratch, reused to keep Step allocation-free
	neighbors []int
	view      []View
}

// New creates a simulator for a viewport of the given size.
func New(width, height float64, p Params) *Simulator {
	return &Simulator{
		P:      p,
		grid:   NewGrid(p.SmoothingRadius),
		kernel: NewKernel(p.SmoothingRadius),
		waves:  make([]WaveOrigin, 0, p.WaveCap),
		width:  width,
		height: height,
		rng:    rand.New(rand.NewSource(p.Seed)),
	}
}

// Resize repositions the containment rectangle. Existing particles are
// kept; the next boundary pass clamps any that fall outside.
func (s *Simulator) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// Bounds returns the current viewport size.
func (s *Simulator) Bounds() (width, height float64) {
	return s.width, s.height
}

// Time returns the simulation clock in seconds.
func (s *Simulator) Time() float64 { return s.now }

// Frame returns the number of completed steps.
func (s *Simulator) Frame() int { return s.frame }

// Step advances the simulation by one fixed timestep. Not reentrant; one
// call per animation frame.
func (s *Simulator) Step() {
	s.rebuildGrid()
	s.computeDensityPressure()
	s.computeForces()
	s.applyPerturbation()
	s.integrate()
	s.resolveBoundaries()
	s.removeExpired()
	s.pruneWaveOrigins()

	s.now += s.P.Dt
	s.frame++
}

func (s *Simulator) rebuildGrid() {
	s.grid.Clear()
	for i := range s.Particles {
		s.grid.Insert(i, s.Particles[i].Pos)
	}
}

// computeDensityPressure runs the poly6 mass-weighted sum for every
// particle, including its own contribution (the kernel is maximal at
// r=0). Pressure follows the ideal-gas-like equation of state and is
// allowed to go negative under rarefaction: at low gas constants the
// resulting tension keeps the body cohesive instead of exploding.
func (s *Simulator) computeDensityPressure() {
	h := s.P.SmoothingRadius
	for i := range s.Particles {
		p := &s.Particles[i]
		s.neighbors = s.grid.Query(p.Pos, h, s.neighbors[:0])

		density := 0.0
		for _, j := range s.neighbors {
			q := &s.Particles[j]
			r2 := p.Pos.Sub(q.Pos).LenSq()
			density += q.Mass * s.kernel.Poly6(r2)
		}

		p.Density = density
		p.Pressure = s.P.GasConstant * (density - p.RestDensity)
	}
}

// computeForces accumulates the pairwise SPH forces plus gravity and the
// pointer interaction, writing total acceleration into each particle.
func (s *Simulator) computeForces() {
	h := s.P.SmoothingRadius
	for i := range s.Particles {
		p := &s.Particles[i]
		s.neighbors = s.grid.Query(p.Pos, h, s.neighbors[:0])

		var force Vec2
		var centroid Vec2
		near := 0

		for _, j := range s.neighbors {
			if j == i {
				continue
			}
			q := &s.Particles[j]
			offset := p.Pos.Sub(q.Pos)
			r := offset.Len()
			if r < Epsilon || r >= h {
				continue
			}

			// Pressure: spiky gradient weighted by the symmetrized
			// pressure, so pairs under mutual tension pull rather
			// than attract incorrectly.
			if q.Density > Epsilon {
				shared := (p.Pressure + q.Pressure) / (2 * q.Density)
				force = force.Add(s.kernel.SpikyGrad(offset, r).Scale(q.Mass * shared))

				// Viscosity: velocity averaging, the dissipative term.
				visc := s.P.Viscosity * q.Mass * s.kernel.ViscLap(r) / q.Density
				force = force.Add(q.Vel.Sub(p.Vel).Scale(visc))
			}

			centroid = centroid.Add(q.Pos)
			near++
		}

		// Surface tension: a simplified cohesion pull toward the
		// neighbor centroid, not a curvature model.
		if near > 0 {
			centroid = centroid.Scale(1.0 / float64(near))
			force = force.Add(centroid.Sub(p.Pos).Scale(s.P.SurfaceTension))
		}

		force = force.Add(s.pointerForce(p))

		acc := Vec2{0, s.P.Gravity}
		if p.Density > Epsilon {
			acc = acc.Add(force.Scale(1.0 / p.Density))
		}
		p.Acc = acc
	}
}

// pointerForce returns the cursor interaction force on p: a repulsive
// push while the button is held, and a directional drag when the cursor
// moves fast enough. Both fall off exponentially with distance and cut
// off hard at the pointer radius.
func (s *Simulator) pointerForce(p *Particle) Vec2 {
	radius := s.P.PointerRadius
	offset := p.Pos.Sub(s.pointer.Pos)
	dist := offset.Len()
	if dist >= radius {
		return Vec2{}
	}

	var force Vec2
	falloff := math.Exp(-dist * s.P.PointerFalloff)

	if s.pointer.Down {
		prox := 1 - dist/radius
		force = force.Add(offset.Norm().Scale(s.P.PointerPush * prox * prox * falloff))
	}

	speed := s.pointer.Vel.Len()
	if speed > s.P.PointerSpeedMin {
		force = force.Add(s.pointer.Vel.Scale(s.P.PointerDrag * falloff))
	}

	return force
}

// integrate advances velocities and positions with semi-implicit Euler.
// Velocity is damped and hard-clamped before the position update so a
// degenerate force spike cannot fling a particle across the viewport.
// Splash particles age one tick and fade linearly to transparent.
func (s *Simulator) integrate() {
	dt := s.P.Dt
	for i := range s.Particles {
		p := &s.Particles[i]

		vel := p.Vel.Add(p.Acc.Scale(dt)).Scale(s.P.Damping)
		if speed := vel.Len(); speed > s.P.MaxSpeed {
			vel = vel.Scale(s.P.MaxSpeed / speed)
		}

		p.Vel = vel
		p.PrevPos = p.Pos
		p.Pos = p.Pos.Add(vel.Scale(dt))

		if p.Splash && p.Lifespan > 0 {
			p.Age++
			fade := 1 - float64(p.Age)/float64(p.Lifespan)
			if fade < 0 {
				fade = 0
			}
			p.Color.A = fade
		}
	}
}

// resolveBoundaries clamps particles to the inset rectangle and reflects
// the offending velocity component. A hard enough impact registers a
// wave origin and may cascade into a secondary splash burst; new
// particles spawned here are not revisited until the next step.
func (s *Simulator) resolveBoundaries() {
	minX, minY := s.P.Margin, s.P.Margin
	maxX, maxY := s.width-s.P.Margin, s.height-s.P.Margin

	n := len(s.Particles)
	for i := 0; i < n; i++ {
		p := &s.Particles[i]
		impact := 0.0
		var at Vec2

		if p.Pos.X < minX {
			impact = math.Max(impact, math.Abs(p.Vel.X))
			p.Pos.X = minX
			p.Vel.X = -p.Vel.X * s.P.Bounce
			at = p.Pos
		} else if p.Pos.X > maxX {
			impact = math.Max(impact, math.Abs(p.Vel.X))
			p.Pos.X = maxX
			p.Vel.X = -p.Vel.X * s.P.Bounce
			at = p.Pos
		}

		if p.Pos.Y < minY {
			impact = math.Max(impact, math.Abs(p.Vel.Y))
			p.Pos.Y = minY
			p.Vel.Y = -p.Vel.Y * s.P.Bounce
			at = p.Pos
		} else if p.Pos.Y > maxY {
			impact = math.Max(impact, math.Abs(p.Vel.Y))
			p.Pos.Y = maxY
			p.Vel.Y = -p.Vel.Y * s.P.Bounce
			at = p.Pos
		}

		if impact > s.P.ImpactSpeed {
			excess := impact/s.P.ImpactSpeed - 1
			s.addWaveOrigin(at, math.Min(1, excess))
			if s.rng.Float64() < math.Min(1, excess*s.P.ImpactSplashChance) {
				s.splashBurst(at, math.Min(1, excess*0.5))
			}
		}
	}
}

// removeExpired filters out splash particles that have outlived their
// frame budget. Non-splash particles (lifespan -1) are never removed.
func (s *Simulator) removeExpired() {
	kept := s.Particles[:0]
	for i := range s.Particles {
		p := s.Particles[i]
		if p.Splash && p.Lifespan >= 0 && p.Age >= p.Lifespan {
			continue
		}
		kept = append(kept, p)
	}
	s.Particles = kept
}

// Valid reports whether every particle holds finite position and
// velocity. Batch runners use it to abort diverged simulations.
func (s *Simulator) Valid() bool {
	for i := range s.Particles {
		p := &s.Particles[i]
		if !p.Pos.IsValid() || !p.Vel.IsValid() {
			return false
		}
	}
	return true
}
