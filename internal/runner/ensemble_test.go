package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/metrics"
)

func ensembleBuild(t *testing.T) func(seed int64) (*Runner, *fluid.Simulator, error) {
	t.Helper()
	return func(seed int64) (*Runner, *fluid.Simulator, error) {
		p := fluid.DefaultParams()
		p.Seed = seed
		sim := fluid.New(300, 200, p)
		sim.CreateWaterBlock(fluid.Rect{X: 60, Y: 100, W: 180, H: 60}, 12)

		r := New()
		r.AddMetric(metrics.NewKineticEnergy())
		return r, sim, nil
	}
}

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(4, 100)
	opts := Options{Frames: 20}

	results, err := e.Run(context.Background(), opts, ensembleBuild(t))
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, res := range results {
		if res.FramesRun != 20 {
			t.Errorf("trial %d ran %d frames, want 20", i, res.FramesRun)
		}
	}

	// Different seeds drive different jitter, so the trials should not
	// all land on the same energy.
	seen := make(map[float64]bool)
	for _, res := range results {
		seen[res.Metrics["kinetic_energy"]] = true
	}
	if len(seen) < 2 {
		t.Error("all trials produced identical kinetic energy")
	}
}

func TestEnsembleMeanMetrics(t *testing.T) {
	results := []*Result{
		{Metrics: map[string]float64{"kinetic_energy": 10, "max_speed": 100}},
		{Metrics: map[string]float64{"kinetic_energy": 30, "max_speed": 200}},
	}
	mean := MeanMetrics(results)
	if mean["kinetic_energy"] != 20 {
		t.Errorf("mean kinetic_energy = %g, want 20", mean["kinetic_energy"])
	}
	if mean["max_speed"] != 150 {
		t.Errorf("mean max_speed = %g, want 150", mean["max_speed"])
	}
	if MeanMetrics(nil) != nil {
		t.Error("expected nil mean for empty ensemble")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	want := errors.New("boom")
	e := NewEnsemble(2, 0)
	_, err := e.Run(context.Background(), Options{Frames: 5}, func(seed int64) (*Runner, *fluid.Simulator, error) {
		return nil, nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected build error, got %v", err)
	}
}
