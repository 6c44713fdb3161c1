// Package runner drives a simulator headlessly for a fixed number of
// frames, collecting metric series along the way. Interactive frontends
// step the simulator themselves; the runner exists for batch runs,
// benchmarks, and recorded experiments.
package runner

import (
	"context"
	"fmt"

	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/metrics"
)

// Event is a scripted interaction applied before the given frame is
// stepped, so recorded runs can exercise splashes and ripples without a
// frontend attached.
type Event struct {
	Frame     int        `yaml:"frame"`
	Kind      string     `yaml:"kind"` // "splash" or "ripple"
	Pos       fluid.Vec2 `yaml:"pos"`
	Intensity float64    `yaml:"intensity"` // splash intensity or ripple strength
}

type Options struct {
	Frames        int
	SampleEvery   int // observe metrics every N frames, 0 means every frame
	ValidateState bool
	Events        []Event
}

type Result struct {
	Times         []float64
	Series        map[string][]float64
	Metrics       map[string]float64
	FinalSnapshot []fluid.View
	FramesRun     int
}

type Runner struct {
	metrics   []metrics.Metric
	observers []metrics.Observer
}

func New() *Runner {
	return &Runner{
		metrics:   make([]metrics.Metric, 0),
		observers: make([]metrics.Observer, 0),
	}
}

func (r *Runner) AddMetric(m metrics.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o metrics.Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, sim *fluid.Simulator, opts Options) (*Result, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	every := opts.SampleEvery
	if every <= 0 {
		every = 1
	}
	samples := opts.Frames/every + 1

	result := &Result{
		Times:   make([]float64, 0, samples),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	events := indexEvents(opts.Events)

	for i := 0; i < opts.Frames; i++ {
		select {
		case <-ctx.Done():
			result.FinalSnapshot = snapshotCopy(sim)
			return result, ctx.Err()
		default:
		}

		for _, ev := range events[i] {
			apply(sim, ev)
		}

		sim.Step()

		if opts.ValidateState && !sim.Valid() {
			result.FinalSnapshot = snapshotCopy(sim)
			return result, &fluid.StepError{
				Frame:   sim.Frame(),
				Time:    sim.Time(),
				Wrapped: fluid.ErrInvalidState,
			}
		}

		result.FramesRun++

		if i%every == 0 {
			view := sim.Snapshot()
			t := sim.Time()
			result.Times = append(result.Times, t)
			for _, m := range r.metrics {
				m.Observe(t, view)
				result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
			}
			for _, obs := range r.observers {
				obs.OnFrame(t, view)
			}
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.FinalSnapshot = snapshotCopy(sim)

	return result, nil
}

// RunWithCallback steps the simulator and hands each frame's snapshot
// to the callback; returning false stops the run early.
func (r *Runner) RunWithCallback(ctx context.Context, sim *fluid.Simulator, opts Options, callback func(t float64, view []fluid.View) bool) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	events := indexEvents(opts.Events)

	for i := 0; i < opts.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for _, ev := range events[i] {
			apply(sim, ev)
		}

		sim.Step()

		if opts.ValidateState && !sim.Valid() {
			return &fluid.StepError{
				Frame:   sim.Frame(),
				Time:    sim.Time(),
				Wrapped: fluid.ErrInvalidState,
			}
		}

		if !callback(sim.Time(), sim.Snapshot()) {
			return nil
		}
	}

	return nil
}

func validateOptions(opts Options) error {
	if opts.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", opts.Frames)
	}
	if opts.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", opts.SampleEvery)
	}
	for _, ev := range opts.Events {
		if ev.Kind != "splash" && ev.Kind != "ripple" {
			return fmt.Errorf("unknown event kind %q", ev.Kind)
		}
		if ev.Frame < 0 || ev.Frame >= opts.Frames {
			return fmt.Errorf("event frame %d outside run of %d frames", ev.Frame, opts.Frames)
		}
	}
	return nil
}

func indexEvents(events []Event) map[int][]Event {
	if len(events) == 0 {
		return nil
	}
	byFrame := make(map[int][]Event, len(events))
	for _, ev := range events {
		byFrame[ev.Frame] = append(byFrame[ev.Frame], ev)
	}
	return byFrame
}

func apply(sim *fluid.Simulator, ev Event) {
	switch ev.Kind {
	case "splash":
		sim.CreateSplash(ev.Pos, ev.Intensity)
	case "ripple":
		sim.CreateRipple(ev.Pos, ev.Intensity)
	}
}

// snapshotCopy detaches the snapshot from the simulator's reusable
// buffer so the result stays stable after further steps.
func snapshotCopy(sim *fluid.Simulator) []fluid.View {
	view := sim.Snapshot()
	out := make([]fluid.View, len(view))
	copy(out, view)
	return out
}
