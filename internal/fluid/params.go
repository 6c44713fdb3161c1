package fluid

// Params holds every tuned constant of the simulation. The defaults are
// chosen empirically to keep the explicit integration scheme stable at
// the fixed timestep; treat them as a safety margin, not a correctness
// guarantee. The yaml tags are consumed by internal/config.
type Params struct {
	// SPH model
	SmoothingRadius float64 `yaml:"smoothing_radius"`
	GasConstant     float64 `yaml:"gas_constant"`
	RestDensity     float64 `yaml:"rest_density"`
	ParticleMass    float64 `yaml:"particle_mass"`
	Viscosity       float64 `yaml:"viscosity"`
	SurfaceTension  float64 `yaml:"surface_tension"`
	Gravity         float64 `yaml:"gravity"` // screen coordinates: +y is down

	// Integration
	Dt       float64 `yaml:"dt"` // fixed, decoupled from wall clock
	Damping  float64 `yaml:"damping"`
	MaxSpeed float64 `yaml:"max_speed"`

	// Boundary
	Margin             float64 `yaml:"margin"`
	Bounce             float64 `yaml:"bounce"`
	ImpactSpeed        float64 `yaml:"impact_speed"` // chain-reaction threshold
	ImpactSplashChance float64 `yaml:"impact_splash_chance"`

	// Wave propagation
	WaveSpeed     float64 `yaml:"wave_speed"`
	WaveRingWidth float64 `yaml:"wave_ring_width"`
	WaveDecay     float64 `yaml:"wave_decay"`
	WaveHorizon   float64 `yaml:"wave_horizon"` // seconds before an origin is dropped
	WaveCap       int     `yaml:"wave_cap"`     // max retained origins, FIFO eviction

	// Ambient perturbation
	AmbientAmplitude float64 `yaml:"ambient_amplitude"`
	SwellAmplitude   float64 `yaml:"swell_amplitude"`
	JitterAmplitude  float64 `yaml:"jitter_amplitude"`

	// Pointer interaction
	PointerRadius   float64 `yaml:"pointer_radius"`
	PointerPush     float64 `yaml:"pointer_push"`
	PointerDrag     float64 `yaml:"pointer_drag"`
	PointerSpeedMin float64 `yaml:"pointer_speed_min"`
	PointerFalloff  float64 `yaml:"pointer_falloff"`

	// Particle appearance
	ParticleSize float64 `yaml:"particle_size"`

	Seed int64 `yaml:"seed"`
}

// DefaultParams returns the tuning used by the interactive surfaces.
// Units are pixels and seconds.
func DefaultParams() Params {
	return Params{
		SmoothingRadius: 16,
		GasConstant:     40,
		RestDensity:     0.02,
		ParticleMass:    1,
		Viscosity:       0.12,
		SurfaceTension:  0.35,
		Gravity:         240,

		Dt:       1.0 / 60.0,
		Damping:  0.985,
		MaxSpeed: 560,

		Margin:             10,
		Bounce:             0.55,
		ImpactSpeed:        200,
		ImpactSplashChance: 0.4,

		WaveSpeed:     180,
		WaveRingWidth: 48,
		WaveDecay:     1.1,
		WaveHorizon:   3.0,
		WaveCap:       24,

		AmbientAmplitude: 22,
		SwellAmplitude:   14,
		JitterAmplitude:  6,

		PointerRadius:   90,
		PointerPush:     900,
		PointerDrag:     5.5,
		PointerSpeedMin: 140,
		PointerFalloff:  0.03,

		ParticleSize: 7,

		Seed: 1,
	}
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (p Params) Validate() error {
	if p.SmoothingRadius <= 0 {
		return ErrParameterBounds
	}
	if p.Dt <= 0 {
		return ErrParameterBounds
	}
	if p.ParticleMass <= 0 {
		return ErrParameterBounds
	}
	if p.WaveCap < 0 || p.WaveHorizon < 0 {
		return ErrParameterBounds
	}
	return nil
}
