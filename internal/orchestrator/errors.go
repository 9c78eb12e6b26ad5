package orchestrator

import (
	"errors"
	"fmt"
)

// Failure categories for a halted plan.
var (
	// ErrBuildFailed indicates the external binary was missing and could
	// not be built. Fatal before iteration 1.
	ErrBuildFailed = errors.New("orchestrator: clover_leaf build failed")

	// ErrSimulationFailed indicates the completion marker was absent from
	// the simulation log.
	ErrSimulationFailed = errors.New("orchestrator: completion marker absent from simulation log")

	// ErrCollectFailed indicates artifact relocation did not complete;
	// halting protects against silently-incomplete archives.
	ErrCollectFailed = errors.New("orchestrator: artifact collection failed")

	// ErrArchiveFailed indicates the archive could not be created. The
	// collected iteration directory is left intact.
	ErrArchiveFailed = errors.New("orchestrator: archive creation failed")
)

// IterationError wraps a failure with the iteration and phase it occurred
// in.
type IterationError struct {
	Index   int
	Phase   Phase
	Wrapped error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("iteration %d (%s): %v", e.Index, e.Phase, e.Wrapped)
}

func (e *IterationError) Unwrap() error {
	return e.Wrapped
}
