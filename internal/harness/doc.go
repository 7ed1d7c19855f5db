// Package harness runs conformance scenarios end to end.
//
// A scenario names a graph document, seeds for the runtime, and
// expectations on the run: either final value bindings or a failure code.
// The harness drives the real pipeline (validate, lower, execute) and
// snapshots the resulting trace as canonical JSON for golden comparison,
// so a behavioral change in any stage shows up as a golden diff.
package harness
