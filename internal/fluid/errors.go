package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidState indicates a particle with NaN or Inf components.
	ErrInvalidState = errors.New("fluid: invalid particle state (NaN or Inf detected)")

	// ErrParameterBounds indicates a tuning parameter outside its valid range.
	ErrParameterBounds = errors.New("fluid: parameter out of valid bounds")
)

// StepError stamps an error with the frame it occurred on.
type StepError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
