// Package optim sweeps simulation parameters over a grid, scoring each
// point with a recorded-run metric. Useful for tuning stability margins
// without watching the water by eye.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/konacodes/fluidsim/internal/fluid"
)

// GridSearch enumerates the cartesian product of the per-parameter
// value lists and keeps the point with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %q has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs the evaluate callback at every grid point and returns the
// assignment with the smallest value of the named metric. Evaluation
// errors skip the point; cancellation aborts with the context error.
func (g *GridSearch) Search(
	ctx context.Context,
	evaluate func(ctx context.Context, params map[string]float64) (map[string]float64, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), evaluate, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no grid point produced metric %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(context.Context, map[string]float64) (map[string]float64, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		metrics, err := evaluate(ctx, current)
		if err != nil {
			return nil
		}
		val, ok := metrics[metricName]
		if !ok {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, evaluate, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes a sweep assignment into the parameter set. Names match
// the yaml keys of the tunable physics constants.
func Apply(p *fluid.Params, values map[string]float64) error {
	for name, v := range values {
		switch name {
		case "gas_constant":
			p.GasConstant = v
		case "rest_density":
			p.RestDensity = v
		case "viscosity":
			p.Viscosity = v
		case "surface_tension":
			p.SurfaceTension = v
		case "gravity":
			p.Gravity = v
		case "damping":
			p.Damping = v
		case "smoothing_radius":
			p.SmoothingRadius = v
		case "ambient_amplitude":
			p.AmbientAmplitude = v
		case "swell_amplitude":
			p.SwellAmplitude = v
		case "jitter_amplitude":
			p.JitterAmplitude = v
		case "wave_speed":
			p.WaveSpeed = v
		case "bounce":
			p.Bounce = v
		default:
			return fmt.Errorf("unknown sweep parameter %q", name)
		}
	}
	return nil
}

// Values expands lo..hi into n evenly spaced samples.
func Values(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	return out
}
