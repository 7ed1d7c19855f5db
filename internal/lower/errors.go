package lower

import (
	"errors"
	"fmt"
)

// Error codes for lowering failures.
const (
	// ErrCodeCapChainMissing means a Load/Store/Call node's capability
	// chain could not be resolved. Unreachable for validated graphs; the
	// lowering pass re-checks defensively.
	ErrCodeCapChainMissing = "CAP_CHAIN_MISSING"
)

// Error is a lowering failure naming the node that could not be lowered.
type Error struct {
	Code    string
	NodeID  string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
}

// IsCapChainMissing reports whether err is a missing-capability-chain
// lowering failure.
func IsCapChainMissing(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == ErrCodeCapChainMissing
	}
	return false
}
