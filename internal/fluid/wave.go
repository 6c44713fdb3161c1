package fluid

// WaveOrigin records a past interaction (splash, ripple or boundary
// impact) that keeps radiating an expanding, decaying ring wave until it
// ages past the retention horizon.
type WaveOrigin struct {
	Pos      Vec2
	Strength float64
	Born     float64 // simulation time of the interaction
}

// addWaveOrigin registers a new origin, evicting the oldest one first if
// the list is at capacity.
func (s *Simulator) addWaveOrigin(pos Vec2, strength float64) {
	if s.P.WaveCap == 0 {
		return
	}
	if len(s.waves) >= s.P.WaveCap {
		n := copy(s.waves, s.waves[1:])
		s.waves = s.waves[:n]
	}
	s.waves = append(s.waves, WaveOrigin{Pos: pos, Strength: strength, Born: s.now})
}

// pruneWaveOrigins drops origins older than the retention horizon.
// Origins are appended in time order, so the survivors are a suffix.
func (s *Simulator) pruneWaveOrigins() {
	cut := 0
	for cut < len(s.waves) && s.now-s.waves[cut].Born > s.P.WaveHorizon {
		cut++
	}
	if cut > 0 {
		n := copy(s.waves, s.waves[cut:])
		s.waves = s.waves[:n]
	}
}

// WaveOrigins exposes the live origin list for rendering and tests.
func (s *Simulator) WaveOrigins() []WaveOrigin {
	return s.waves
}
