package engine

import (
	"log/slog"

	"github.com/eafipg/eafipg/internal/lower"
)

// Run schedules and executes every node of the DAG against the runtime.
//
// Kahn's algorithm: in-degrees are computed from all exec edges, every
// zero-in-degree node seeds the ready queue, and popping a node executes
// it and releases its successors. Among simultaneously-ready nodes the
// queue is FIFO by discovery order; callers must not rely on that
// tie-break, only on the dependency order itself.
//
// If the queue drains before every node has executed, the DAG contains a
// cycle (Memory-layer edges are projected but not validated for
// acyclicity) or an unreachable node, and Run fails with CYCLE_DETECTED.
// The runtime's partial state is left as-is for diagnostics.
func Run(rt *Runtime, dag *lower.ExecDag) error {
	indegree := make(map[string]int, len(dag.Nodes))
	successors := make(map[string][]string, len(dag.Nodes))
	for i := range dag.Nodes {
		indegree[dag.Nodes[i].ID] = 0
	}
	for _, e := range dag.Edges {
		indegree[e.To]++
		successors[e.From] = append(successors[e.From], e.To)
	}

	// Seed in node order so runs over the same DAG trace identically.
	queue := make([]string, 0, len(dag.Nodes))
	for i := range dag.Nodes {
		if indegree[dag.Nodes[i].ID] == 0 {
			queue = append(queue, dag.Nodes[i].ID)
		}
	}

	slog.Debug("run starting",
		"run_id", rt.RunID,
		"nodes", len(dag.Nodes),
		"edges", len(dag.Edges),
	)

	executed := 0
	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		node := dag.Node(nodeID)
		if node == nil {
			return &RuntimeError{
				Code:    ErrCodeNodeNotFound,
				Message: "scheduled node not in DAG",
				RunID:   rt.RunID,
				NodeID:  nodeID,
			}
		}

		if err := executeNode(rt, dag, node); err != nil {
			return err
		}
		rt.record(node.ID, node.Op.String())
		executed++

		for _, next := range successors[nodeID] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if executed != len(dag.Nodes) {
		err := NewCycleError(rt.RunID, executed, len(dag.Nodes))
		slog.Error("run aborted", "run_id", rt.RunID, "error", err.Message)
		return err
	}

	slog.Debug("run complete", "run_id", rt.RunID, "executed", executed)
	return nil
}
