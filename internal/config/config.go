package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/runner"
)

const (
	DefaultWidth   = 960.0
	DefaultHeight  = 540.0
	DefaultFrames  = 600
	DefaultSpacing = 9.0
)

type Config struct {
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Frames      int            `yaml:"frames"`
	SampleEvery int            `yaml:"sample_every"`
	Block       BlockConfig    `yaml:"block"`
	Params      fluid.Params   `yaml:"params"`
	Events      []runner.Event `yaml:"events"`
}

// BlockConfig places the initial body of water. Zero width or height
// means a block filling the lower half of the world.
type BlockConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	W       float64 `yaml:"w"`
	H       float64 `yaml:"h"`
	Spacing float64 `yaml:"spacing"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Frames: DefaultFrames,
		Block: BlockConfig{
			Spacing: DefaultSpacing,
		},
		Params: fluid.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.Block.Spacing <= 0 {
		return fmt.Errorf("block spacing must be positive, got %g", c.Block.Spacing)
	}
	return c.Params.Validate()
}

// BlockRect resolves the water block placement, filling the lower half
// of the world when no explicit geometry is set.
func (c *Config) BlockRect() fluid.Rect {
	if c.Block.W > 0 && c.Block.H > 0 {
		return fluid.Rect{X: c.Block.X, Y: c.Block.Y, W: c.Block.W, H: c.Block.H}
	}
	m := c.Params.Margin
	return fluid.Rect{
		X: m,
		Y: c.Height / 2,
		W: c.Width - 2*m,
		H: c.Height/2 - m,
	}
}

// NewSimulator builds a simulator from the config and fills the water
// block.
func (c *Config) NewSimulator() (*fluid.Simulator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sim := fluid.New(c.Width, c.Height, c.Params)
	sim.CreateWaterBlock(c.BlockRect(), c.Block.Spacing)
	return sim, nil
}
