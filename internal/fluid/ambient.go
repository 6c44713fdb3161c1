package fluid

import "math"

// ambientWaves is the number of overlapping sinusoids summed into the
// ambient undulation. Distinct phases, frequencies and projection axes
// per term approximate organic motion without real turbulence.
const ambientWaves = 7

// applyPerturbation adds the deterministic, non-force wave field to the
// acceleration of every non-splash particle: ambient sinusoids, the
// slow large-scale swell, propagating ring waves from past interactions,
// and a cosmetic micro-jitter. None of it is part of the SPH force
// model; each term can be tuned or zeroed independently without
// affecting fluid stability.
func (s *Simulator) applyPerturbation() {
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Splash {
			continue
		}
		adj := s.ambientAt(p.Pos)
		adj = adj.Add(s.swellAt(p.Pos))
		adj = adj.Add(s.ringWavesAt(p.Pos))
		adj.X += (s.rng.Float64() - 0.5) * 2 * s.P.JitterAmplitude
		adj.Y += (s.rng.Float64() - 0.5) * 2 * s.P.JitterAmplitude
		p.Acc = p.Acc.Add(adj)
	}
}

// ambientAxes holds the fixed projection axis of each sinusoid term,
// computed once so the per-particle loop only pays for the table sine.
var ambientAxes = func() [ambientWaves]Vec2 {
	var axes [ambientWaves]Vec2
	for i := range axes {
		angle := float64(i+1) * 0.9
		axes[i] = Vec2{math.Cos(angle), math.Sin(angle)}
	}
	return axes
}()

// ambientAt sums the overlapping sinusoids at a position. Term i
// projects the position onto a rotated axis and contributes with
// amplitude inversely proportional to its index.
func (s *Simulator) ambientAt(pos Vec2) Vec2 {
	var sum Vec2
	for i := 1; i <= ambientWaves; i++ {
		fi := float64(i)
		dir := ambientAxes[i-1]
		proj := pos.X*dir.X + pos.Y*dir.Y

		phase := fi * 1.7
		freq := 0.4 + 0.23*fi
		waveNum := 0.008 + 0.004*fi

		amp := s.P.AmbientAmplitude / fi
		sum = sum.Add(dir.Scale(amp * fastSin(proj*waveNum+s.now*2*math.Pi*freq+phase)))
	}
	return sum
}

// swellAt is one low-frequency, large-amplitude term modulated by
// absolute position, producing slow whole-body drift.
func (s *Simulator) swellAt(pos Vec2) Vec2 {
	phase := s.now*0.5 + (pos.X+pos.Y)*0.002
	return Vec2{
		X: s.P.SwellAmplitude * fastSin(phase) * 0.6,
		Y: s.P.SwellAmplitude * fastCos(phase*0.8),
	}
}

// ringWavesAt accumulates the radial push of every live wave origin
// whose expanding ring currently passes through pos. The ring front
// travels at WaveSpeed and the push decays exponentially with the
// origin's age, fading out over the retention horizon.
func (s *Simulator) ringWavesAt(pos Vec2) Vec2 {
	var sum Vec2
	halfRing := s.P.WaveRingWidth / 2
	for i := range s.waves {
		w := &s.waves[i]
		age := s.now - w.Born
		front := age * s.P.WaveSpeed

		offset := pos.Sub(w.Pos)
		dist := offset.Len()
		if dist < Epsilon {
			continue
		}
		band := math.Abs(dist - front)
		if band >= halfRing {
			continue
		}

		prox := 1 - band/halfRing
		push := w.Strength * prox * math.Exp(-age*s.P.WaveDecay) * s.P.AmbientAmplitude * 10
		sum = sum.Add(offset.Norm().Scale(push))
	}
	return sum
}
