package engine

import (
	"sort"

	"github.com/eafipg/eafipg/internal/ir"
)

// Snapshot is the durable record of a completed (or aborted) run: the
// final value bindings, memory image, register file, and ordered trace.
// Snapshots are persisted through the store as canonical JSON and
// addressed by content hash.
type Snapshot struct {
	RunID     string
	GraphHash string
	Seq       int64
	Values    map[string]ir.Value
	Memory    map[uint64]byte
	Registers map[string]int64
	Trace     []TraceEvent
}

// Snapshot captures the runtime's current state. graphHash names the
// graph the run executed, tying the snapshot back to its source.
func (rt *Runtime) Snapshot(graphHash string) *Snapshot {
	snap := &Snapshot{
		RunID:     rt.RunID,
		GraphHash: graphHash,
		Seq:       rt.clock.Current(),
		Values:    make(map[string]ir.Value, len(rt.Values)),
		Memory:    make(map[uint64]byte, len(rt.Memory)),
		Registers: make(map[string]int64, len(rt.Registers)),
		Trace:     append([]TraceEvent(nil), rt.Trace...),
	}
	for k, v := range rt.Values {
		snap.Values[k] = v
	}
	for a, b := range rt.Memory {
		snap.Memory[a] = b
	}
	for r, v := range rt.Registers {
		snap.Registers[r] = v
	}
	return snap
}

// ToValue converts the snapshot into canonical value form. Memory is
// rendered as sorted [addr, byte] pairs so the encoding is deterministic
// and survives the string-keyed object model.
func (s *Snapshot) ToValue() ir.Value {
	values := ir.Object{}
	for k, v := range s.Values {
		values[k] = v
	}

	addrs := make([]uint64, 0, len(s.Memory))
	for a := range s.Memory {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	memory := make(ir.Array, len(addrs))
	for i, a := range addrs {
		memory[i] = ir.Array{ir.Addr(a), ir.Int(s.Memory[a])}
	}

	registers := ir.Object{}
	for r, v := range s.Registers {
		registers[r] = ir.Int(v)
	}

	trace := make(ir.Array, len(s.Trace))
	for i, ev := range s.Trace {
		trace[i] = ir.Object{
			"seq":     ir.Int(ev.Seq),
			"node_id": ir.String(ev.NodeID),
			"op":      ir.String(ev.Op),
		}
	}

	return ir.Object{
		"run_id":     ir.String(s.RunID),
		"graph_hash": ir.String(s.GraphHash),
		"seq":        ir.Int(s.Seq),
		"values":     values,
		"memory":     memory,
		"registers":  registers,
		"trace":      trace,
	}
}

// Hash computes the snapshot's content-addressed identity.
func (s *Snapshot) Hash() (string, error) {
	return ir.HashValue(ir.DomainSnapshot, s.ToValue())
}
