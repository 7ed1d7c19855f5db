// Package engine schedules and executes lowered DAGs.
//
// Execution is a single-threaded fold over the DAG: Kahn's algorithm keeps
// a ready queue of nodes whose dependencies have all fired, pops one at a
// time, and dispatches on its operation kind to mutate the Runtime.
// Each run owns its state exclusively; a failed run never corrupts another.
package engine
