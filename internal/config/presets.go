package config

import "github.com/konacodes/fluidsim/internal/fluid"

func preset(mutate func(p *fluid.Params)) *Config {
	cfg := DefaultConfig()
	mutate(&cfg.Params)
	return cfg
}

var Presets = map[string]*Config{
	// calm water, gentle ambient motion
	"pond": preset(func(p *fluid.Params) {
		p.AmbientAmplitude = 10
		p.SwellAmplitude = 6
		p.JitterAmplitude = 2
		p.ImpactSplashChance = 0.25
	}),
	// heavy swell and eager splashing
	"storm": preset(func(p *fluid.Params) {
		p.AmbientAmplitude = 40
		p.SwellAmplitude = 30
		p.JitterAmplitude = 12
		p.ImpactSplashChance = 0.8
		p.ImpactSpeed = 140
		p.WaveSpeed = 240
	}),
	// thick, sluggish fluid
	"goo": preset(func(p *fluid.Params) {
		p.Viscosity = 0.6
		p.SurfaceTension = 1.2
		p.Damping = 0.94
		p.AmbientAmplitude = 4
		p.SwellAmplitude = 2
		p.JitterAmplitude = 0
		p.Bounce = 0.2
	}),
	// free-floating droplets, no gravity
	"zero-g": preset(func(p *fluid.Params) {
		p.Gravity = 0
		p.SurfaceTension = 0.9
		p.AmbientAmplitude = 6
		p.SwellAmplitude = 0
		p.Damping = 0.999
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
