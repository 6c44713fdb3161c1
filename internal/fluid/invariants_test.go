package fluid_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/konacodes/fluidsim/internal/fluid"
)

// Invariant coverage under randomized interaction sequences: whatever
// the user does with the pointer and the mutators, particles stay in
// bounds, the wave-origin list stays bounded, and splash particles
// never outlive their budget.
var _ = Describe("Simulator invariants", func() {
	var (
		sim *fluid.Simulator
		rng *rand.Rand
	)

	const (
		width  = 480.0
		height = 360.0
	)

	BeforeEach(func() {
		p := fluid.DefaultParams()
		p.Seed = 99
		sim = fluid.New(width, height, p)
		sim.CreateWaterBlock(fluid.Rect{X: 80, Y: 120, W: 320, H: 160}, 10)
		rng = rand.New(rand.NewSource(42))
	})

	randomPoint := func() fluid.Vec2 {
		return fluid.Vec2{
			X: 20 + rng.Float64()*(width-40),
			Y: 20 + rng.Float64()*(height-40),
		}
	}

	interact := func() {
		switch rng.Intn(5) {
		case 0:
			sim.CreateSplash(randomPoint(), rng.Float64())
		case 1:
			sim.CreateRipple(randomPoint(), 100+rng.Float64()*200)
		case 2:
			sim.SetPointerPosition(randomPoint())
			sim.SetPointerDown(rng.Intn(2) == 0)
		case 3:
			sim.AddParticle(randomPoint(), fluid.Vec2{X: rng.Float64()*400 - 200}, rng.Intn(2) == 0)
		default:
			// let it settle
		}
	}

	It("keeps every particle inside the inset rectangle", func() {
		margin := sim.P.Margin
		for step := 0; step < 180; step++ {
			interact()
			sim.Step()
			for _, v := range sim.Snapshot() {
				Expect(v.Pos.X).To(BeNumerically(">=", margin))
				Expect(v.Pos.X).To(BeNumerically("<=", width-margin))
				Expect(v.Pos.Y).To(BeNumerically(">=", margin))
				Expect(v.Pos.Y).To(BeNumerically("<=", height-margin))
			}
		}
	})

	It("never exceeds the wave-origin capacity or retention horizon", func() {
		for step := 0; step < 240; step++ {
			interact()
			sim.Step()

			origins := sim.WaveOrigins()
			Expect(len(origins)).To(BeNumerically("<=", sim.P.WaveCap))
			for _, w := range origins {
				Expect(sim.Time() - w.Born).To(BeNumerically("<=", sim.P.WaveHorizon+sim.P.Dt))
			}
		}
	})

	It("removes every splash particle within its lifespan", func() {
		// Boundary impacts may spawn fresh splashes of their own;
		// disable the chain reaction so only the initial burst counts.
		p := fluid.DefaultParams()
		p.ImpactSplashChance = 0
		quiet := fluid.New(width, height, p)
		quiet.CreateSplash(fluid.Vec2{X: 240, Y: 180}, 1)

		maxLife := 0
		for _, q := range quiet.Particles {
			if q.Splash && q.Lifespan > maxLife {
				maxLife = q.Lifespan
			}
		}
		Expect(maxLife).To(BeNumerically(">", 0))

		for step := 0; step <= maxLife; step++ {
			quiet.Step()
		}
		for _, v := range quiet.Snapshot() {
			Expect(v.Splash).To(BeFalse())
		}
	})

	It("keeps the whole state finite under pointer abuse", func() {
		for step := 0; step < 180; step++ {
			sim.SetPointerPosition(randomPoint())
			sim.SetPointerDown(step%3 != 0)
			sim.Step()
		}
		Expect(sim.Valid()).To(BeTrue())
	})
})
