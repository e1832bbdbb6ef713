package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration and design operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrNoTermination indicates the integration span ended before a terminal event fired.
	ErrNoTermination = errors.New("dynamo: terminal event not reached")

	// ErrNoConvergence indicates an iterative search hit its iteration cap.
	ErrNoConvergence = errors.New("dynamo: iteration limit reached without convergence")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInfeasible is matched by every InfeasibleError.
	ErrInfeasible = errors.New("infeasible design")
)

// SimulationError wraps an error with integration context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// InfeasibleError reports that the requested parameters cannot produce a
// valid jump. Callers match it with errors.Is(err, ErrInfeasible).
type InfeasibleError struct {
	Reason string
	Err    error
}

func (e *InfeasibleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("infeasible design: %s: %v", e.Reason, e.Err)
	}
	return "infeasible design: " + e.Reason
}

func (e *InfeasibleError) Unwrap() error {
	return e.Err
}

func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}

// Infeasible builds an InfeasibleError with a formatted reason.
func Infeasible(format string, args ...any) error {
	return &InfeasibleError{Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleCause builds an InfeasibleError that unwraps to cause.
func InfeasibleCause(cause error, format string, args ...any) error {
	return &InfeasibleError{Reason: fmt.Sprintf(format, args...), Err: cause}
}
