package lower

import (
	"encoding/json"
	"fmt"

	"github.com/eafipg/eafipg/internal/ir"
)

// ExecEdgeKind tags a projected dependency with the layer it came from,
// plus the synthetic Enable kind for capability gating.
type ExecEdgeKind int

const (
	// DepData came from a Data-layer edge.
	DepData ExecEdgeKind = iota
	// DepControl came from a Control-layer edge.
	DepControl
	// DepMemory came from a Memory-layer edge.
	DepMemory
	// DepTime came from a Time-layer edge.
	DepTime
	// DepEnable gates an operation on its capability check.
	DepEnable
)

var execEdgeKindNames = map[ExecEdgeKind]string{
	DepData:    "Data",
	DepControl: "Control",
	DepMemory:  "Memory",
	DepTime:    "Time",
	DepEnable:  "Enable",
}

// String returns the dependency kind name.
func (k ExecEdgeKind) String() string {
	if name, ok := execEdgeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ExecEdgeKind(%d)", int(k))
}

// MarshalJSON encodes the kind as its name. ExecDags are derived and never
// unmarshaled, so no decoder exists.
func (k ExecEdgeKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// MarshalJSON encodes the op code as its name.
func (c OpCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ExecNode is one schedulable operation. Properties are deep-copied from
// the source node (or, for synthesized checks, from the capability node),
// so the DAG is self-contained.
type ExecNode struct {
	ID         string    `json:"id"`
	Op         OpKind    `json:"op"`
	Properties ir.Object `json:"properties,omitempty"`
}

// ExecEdge is a single pairwise dependency: To may not execute before From.
type ExecEdge struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Kind ExecEdgeKind `json:"kind"`
}

// ExecDag is the single-layer dependency graph handed to the scheduler.
// It is rebuilt by every Lower call and discarded after execution.
type ExecDag struct {
	Nodes []ExecNode `json:"nodes"`
	Edges []ExecEdge `json:"edges"`
}

// Node returns the exec node with the given id, or nil.
func (d *ExecDag) Node(id string) *ExecNode {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}
