package fluid

// Pointer is the externally-written cursor state. An input collaborator
// (TUI, GUI, websocket) translates its native events into normalized
// world coordinates and calls the setters; the force pass reads the
// state at the start of every step. No locking: writer and Step run on
// the same loop.
type Pointer struct {
	Pos  Vec2
	Prev Vec2
	Vel  Vec2
	Down bool
}

// SetPointerPosition updates the cursor position and derives its
// velocity from the previous sample and the fixed timestep. Callers are
// expected to clamp or reject malformed coordinates before reaching the
// core.
func (s *Simulator) SetPointerPosition(pos Vec2) {
	s.pointer.Prev = s.pointer.Pos
	s.pointer.Pos = pos
	s.pointer.Vel = pos.Sub(s.pointer.Prev).Scale(1.0 / s.P.Dt)
}

// SetPointerDown updates the button state. A press transition triggers a
// moderate splash at the cursor.
func (s *Simulator) SetPointerDown(down bool) {
	if down && !s.pointer.Down {
		s.CreateSplash(s.pointer.Pos, 0.5)
	}
	s.pointer.Down = down
}

// PointerState exposes the current pointer for rendering overlays.
func (s *Simulator) PointerState() Pointer {
	return s.pointer
}
