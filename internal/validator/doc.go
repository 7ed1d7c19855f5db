// Package validator checks the ten structural invariants of an EAF-IPG
// graph before it may be lowered or executed.
//
// Validation is fail-fast: checks run in a fixed order and the first
// violation is returned as a coded *Error naming the offending entity.
// A graph that fails validation must never be handed to the lowering pass.
package validator
