package engine

import (
	"github.com/google/uuid"

	"github.com/eafipg/eafipg/internal/ir"
)

// Runtime is the mutable state of one execution run. A Runtime is owned
// exclusively by its run; concurrent runs never share one.
type Runtime struct {
	// RunID uniquely identifies this run in traces and snapshots.
	RunID string

	// Values holds the result bound by each executed node, keyed by
	// exec node id.
	Values map[string]ir.Value

	// Memory is the byte-addressable store mutated by CapLoad/CapStore.
	Memory map[uint64]byte

	// Registers is the external register namespace Mmio operations
	// interact with, keyed by register name.
	Registers map[string]int64

	// Trace records every executed node in order.
	Trace []TraceEvent

	clock *Clock
}

// TraceEvent is one executed node, stamped with its logical sequence
// number.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	NodeID string `json:"node_id"`
	Op     string `json:"op"`
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRunID overrides the generated run id. Used by replay and testing.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.RunID = id
	}
}

// WithRegister seeds a register before execution starts, so MmioRead
// nodes observe it instead of the absent-register placeholder.
func WithRegister(name string, value int64) Option {
	return func(rt *Runtime) {
		rt.Registers[name] = value
	}
}

// WithMemoryImage seeds memory bytes before execution starts.
func WithMemoryImage(image map[uint64]byte) Option {
	return func(rt *Runtime) {
		for addr, b := range image {
			rt.Memory[addr] = b
		}
	}
}

// NewRuntime creates a fresh Runtime with a generated run id.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		RunID:     uuid.NewString(),
		Values:    make(map[string]ir.Value),
		Memory:    make(map[uint64]byte),
		Registers: make(map[string]int64),
		clock:     NewClock(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// record appends a trace event for an executed node.
func (rt *Runtime) record(nodeID, op string) {
	rt.Trace = append(rt.Trace, TraceEvent{
		Seq:    rt.clock.Next(),
		NodeID: nodeID,
		Op:     op,
	})
}
