package fluid

// Color is an RGBA color with float components in [0, 1]. Alpha is the
// only channel the simulation touches: splash particles fade it linearly
// with age. Compositing is the renderer's business.
type Color struct {
	R, G, B, A float64
}

// Particle is one fluid sample point. Particles are stored by value in
// the simulator's slice (array-of-structs); neighbor lists refer to them
// by index, never by pointer.
type Particle struct {
	Pos     Vec2
	Vel     Vec2
	Acc     Vec2 // recomputed from scratch every step
	PrevPos Vec2 // position before the last integration, for continuity across boundary resolution

	Density  float64 // recomputed every step, never carried over
	Pressure float64 // may go negative under rarefaction

	Mass        float64
	RestDensity float64

	Size  float64
	Color Color

	Age      int // frames since creation, only meaningful for splash particles
	Lifespan int // frame budget, -1 = unbounded
	Splash   bool
}

// View is the read-only per-particle snapshot handed to renderers. It
// carries exactly what drawing needs and nothing the renderer could use
// to reach back into the simulation.
type View struct {
	Pos    Vec2
	Speed  float64
	Size   float64
	Color  Color
	Splash bool
}

// Snapshot fills and returns the render view of the live particle
// collection. The returned slice is reused across calls; renderers must
// consume it before the next Step.
func (s *Simulator) Snapshot() []View {
	s.view = s.view[:0]
	for i := range s.Particles {
		p := &s.Particles[i]
		s.view = append(s.view, View{
			Pos:    p.Pos,
			Speed:  p.Vel.Len(),
			Size:   p.Size,
			Color:  p.Color,
			Splash: p.Splash,
		})
	}
	return s.view
}
