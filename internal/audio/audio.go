// Package audio turns the water state into a soft ambient pad. The
// kinetic energy of the fluid opens a low-pass filter over a detuned
// drone, and splashes pluck a short decaying tone on top.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Fsus2 voicing, low and unobtrusive under the water noise floor.
var droneFreqs = []float64{87.31, 130.81, 174.61, 196.00}

type Synth struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	// splash pluck envelope
	pluckAmp  float64
	pluckFreq float64

	// physics handoff, written by the sim goroutine
	mu           sync.Mutex
	energy       float64
	splashPing   bool
	splashPitch  float64
	energySmooth float64

	Active bool
}

func NewSynth() *Synth {
	delayLen := int(float64(SampleRate) * 0.45)
	return &Synth{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

func (s *Synth) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	// Output only. Duplex streams are flaky on Linux when the default
	// input and output devices disagree on sample rate.
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	s.stream = stream
	s.Active = true
	return nil
}

func (s *Synth) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
		s.stream = nil
	}
	portaudio.Terminate()
	s.Active = false
}

// UpdatePhysics hands the latest frame's kinetic energy to the audio
// callback. Safe to call from the simulation goroutine every frame.
func (s *Synth) UpdatePhysics(kineticEnergy float64) {
	s.mu.Lock()
	s.energy = kineticEnergy
	s.mu.Unlock()
}

// NotifySplash schedules a pluck; intensity in [0,1] picks the pitch.
func (s *Synth) NotifySplash(intensity float64) {
	s.mu.Lock()
	s.splashPing = true
	s.splashPitch = 440 + 440*intensity
	s.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (s *Synth) process(out [][]float32) {
	s.mu.Lock()
	targetEnergy := s.energy
	if s.splashPing {
		s.pluckAmp = 0.5
		s.pluckFreq = s.splashPitch
		s.splashPing = false
	}
	s.mu.Unlock()

	// slow morph so the filter never jumps audibly
	s.energySmooth = s.energySmooth*0.995 + targetEnergy*0.005

	cutoff := 250.0 + math.Min(s.energySmooth*0.4, 1400.0)
	dt := 1.0 / float64(SampleRate)
	vol := 0.22

	for i := 0; i < len(out[0]); i++ {
		sampleL := 0.0
		sampleR := 0.0

		for j, f := range droneFreqs {
			oscL := triangle(s.time * (f * 0.999))
			oscR := triangle(s.time * (f * 1.001))

			g := 1.0 / float64(len(droneFreqs))
			lfo := math.Sin(s.time*0.17 + float64(j))

			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		if s.pluckAmp > 1e-4 {
			pluck := math.Sin(2*math.Pi*s.pluckFreq*s.time) * s.pluckAmp
			sampleL += pluck
			sampleR += pluck
			s.pluckAmp *= 0.9997
		}

		var outL, outR float64
		outL, s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		outR, s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])

		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		s.delayLine[0][s.delayHead] = mixL * 0.65
		s.delayLine[1][s.delayHead] = mixR * 0.65
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		s.time += dt
	}
}
