package potential

import (
	"errors"
	"fmt"
)

// Domain errors for model evaluation.
var (
	// ErrDivisionSingularity indicates a potential or force evaluated at a
	// zero distance (or angle) where the closed form diverges.
	ErrDivisionSingularity = errors.New("potential: division singularity (non-finite result)")

	// ErrUnknownModel indicates a model name that is not registered.
	ErrUnknownModel = errors.New("potential: unknown model")

	// ErrUnknownParam indicates a parameter the model does not define.
	ErrUnknownParam = errors.New("potential: unknown parameter")

	// ErrMissingParam indicates a parameter the model needs but was not given.
	ErrMissingParam = errors.New("potential: missing parameter")
)

// EvalError wraps an error with the model and parameter it concerns.
type EvalError struct {
	Model   string
	Param   string
	Value   float64
	Wrapped error
}

func (e *EvalError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %v", e.Model, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v (%s=%g)", e.Model, e.Wrapped, e.Param, e.Value)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
