package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure detected while scheduling or executing
// a lowered DAG. Runtime failures are fatal to the run that raised them
// and to nothing else; the run's state is abandoned, not repaired.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// NodeID identifies the exec node involved, when one is.
	NodeID string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeCycleDetected indicates the ready queue drained with nodes
	// left unexecuted: the DAG contains a cycle or an unreachable node.
	ErrCodeCycleDetected RuntimeErrorCode = "CYCLE_DETECTED"

	// ErrCodeCapDenied indicates a capability check rejected the
	// operation it gates (out-of-bounds address or missing permission).
	ErrCodeCapDenied RuntimeErrorCode = "CAP_DENIED"

	// ErrCodeNodeNotFound indicates the scheduler referenced an exec
	// node absent from the DAG.
	ErrCodeNodeNotFound RuntimeErrorCode = "NODE_NOT_FOUND"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (run=%s, node=%s)", e.Code, e.Message, e.RunID, e.NodeID)
	}
	return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunID)
}

// IsCycleError returns true if the error is a cycle detection error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCycleDetected
	}
	return false
}

// IsCapDenied returns true if the error is a capability denial.
// Uses errors.As to handle wrapped errors.
func IsCapDenied(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeCapDenied
	}
	return false
}

// NewCycleError creates a RuntimeError for an incomplete execution.
func NewCycleError(runID string, executed, total int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeCycleDetected,
		Message: fmt.Sprintf("cycle or unreachable nodes: executed %d of %d", executed, total),
		RunID:   runID,
		Details: map[string]string{
			"executed": fmt.Sprintf("%d", executed),
			"total":    fmt.Sprintf("%d", total),
		},
	}
}

// NewCapDeniedError creates a RuntimeError for a failed capability check.
func NewCapDeniedError(runID, nodeID, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeCapDenied,
		Message: reason,
		RunID:   runID,
		NodeID:  nodeID,
	}
}
