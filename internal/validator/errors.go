package validator

import (
	"errors"
	"fmt"
)

// Validation error codes (E101-E110), one per structural rule.
const (
	ErrDuplicateID       = "E101" // duplicate node or edge id
	ErrDanglingReference = "E102" // incidence references missing entity
	ErrInvalidLayer      = "E103" // edge layer outside the eight views
	ErrSyntaxPosition    = "E104" // syntax child positions not dense 0..k-1
	ErrPhiArity          = "E105" // phi arity != control predecessor count
	ErrMissingCapability = "E106" // Load/Store/Call without capability use edge
	ErrLayerCycle        = "E107" // cycle in Syntax/Data/Time projection
	ErrMemoryArity       = "E108" // memory edge connects fewer than 2 nodes
	ErrBlockShape        = "E109" // Branch/Join control edge cardinality
	ErrMmioUntimed       = "E110" // Mmio node without Time-layer incidence
)

// Error is a single invariant violation. EntityID names the offending node
// or edge; Rule is the human-readable rule name for diagnostics.
type Error struct {
	Code     string `json:"code"`
	Rule     string `json:"rule"`
	EntityID string `json:"entity_id,omitempty"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Rule, e.EntityID, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Rule, e.Message)
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// CodeOf returns the validation error code of err, or "" if err is not a
// validation error.
func CodeOf(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func newError(code, rule, entityID, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Rule:     rule,
		EntityID: entityID,
		Message:  fmt.Sprintf(format, args...),
	}
}
