package fluid

import "math"

// Epsilon is the minimum inter-particle distance considered for force
// evaluation. Pairs closer than this (self-pairs, coincident particles)
// are skipped so no division by r can produce NaN or Inf.
const Epsilon = 1e-6

// Kernel holds the three SPH smoothing kernels with normalization
// coefficients precomputed from the smoothing radius h at construction.
//
// The 2D Müller forms are used: poly6 for density estimation, the spiky
// gradient for pressure and the viscosity laplacian for momentum
// diffusion.
type Kernel struct {
	H  float64 // smoothing radius
	H2 float64 // h²

	poly6C   float64 // 4 / (π h⁸)
	spikyC   float64 // -30 / (π h⁵)
	viscLapC float64 // 40 / (π h⁵)
}

func NewKernel(h float64) Kernel {
	h2 := h * h
	h4 := h2 * h2
	h5 := h4 * h
	return Kernel{
		H:        h,
		H2:       h2,
		poly6C:   4.0 / (math.Pi * h4 * h4),
		spikyC:   -30.0 / (math.Pi * h5),
		viscLapC: 40.0 / (math.Pi * h5),
	}
}

// Poly6 evaluates the density kernel for a squared distance r². It is
// maximal at r=0 and zero for r² ≥ h².
func (k Kernel) Poly6(r2 float64) float64 {
	if r2 >= k.H2 {
		return 0
	}
	d := k.H2 - r2
	return k.poly6C * d * d * d
}

// SpikyGrad returns the pressure kernel gradient for the offset vector
// from neighbor to particle, with r its length. The zero vector is
// returned for r ≥ h or r < Epsilon.
func (k Kernel) SpikyGrad(offset Vec2, r float64) Vec2 {
	if r >= k.H || r < Epsilon {
		return Vec2{}
	}
	d := k.H - r
	return offset.Scale(k.spikyC * d * d / r)
}

// ViscLap evaluates the viscosity kernel laplacian, zero for r ≥ h.
func (k Kernel) ViscLap(r float64) float64 {
	if r >= k.H {
		return 0
	}
	return k.viscLapC * (k.H - r)
}
