// Package fluid implements a real-time 2D Smoothed Particle Hydrodynamics
// simulation.
//
// The package defines the simulation core advanced one fixed timestep per
// animation frame:
//
//   - [Vec2]: 2D vector primitive
//   - [Grid]: uniform-cell spatial hash for neighbor queries
//   - [Particle]: one fluid sample point (position, velocity, density, ...)
//   - [Simulator]: owns the particle collection and runs the per-frame
//     pipeline (index rebuild, density/pressure, forces, wave perturbation,
//     integration, boundary resolution, splash cleanup)
//
// # Example
//
//	sim := fluid.New(800, 600, fluid.DefaultParams())
//	sim.CreateWaterBlock(fluid.Rect{X: 100, Y: 200, W: 600, H: 300}, 8)
//	for range ticker.C {
//	    sim.Step()
//	    render(sim.Snapshot())
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. The core is designed for a
// single render-loop callback: one Step per frame, pointer state written
// between steps from the same goroutine. Concurrent embeddings must
// funnel input through their own handoff (see internal/web).
package fluid
