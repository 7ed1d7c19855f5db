package lower

import (
	"log/slog"

	"github.com/eafipg/eafipg/internal/ir"
)

// CapCheckSuffix is appended to an operation's id to form the id of its
// synthesized capability-check node.
const CapCheckSuffix = "_cap_check"

// Node property keys consulted during lowering.
const (
	propArity     = "arity"
	propOperation = "operation"
)

// Property keys written onto synthesized capability-check nodes.
const (
	// PropCapNode names the capability node the check verifies.
	PropCapNode = "cap_node"
	// PropGates names the operation the check gates.
	PropGates = "gates"
)

// DefaultPhiArity is assumed when a Phi node carries no "arity" property.
const DefaultPhiArity = 2

// Lower converts a validated graph into an execution DAG.
//
// Precondition: the graph passed validation. The capability chain of each
// Load/Store/Call is still re-resolved here, and a broken chain is a hard
// error rather than a silently unguarded operation.
//
// Note the synthesized check nodes have no incoming dependencies, so a
// check is guaranteed to run before its operation (Enable edge) but not
// temporally adjacent to it.
func Lower(g *ir.Graph) (*ExecDag, error) {
	dag := &ExecDag{
		Nodes: make([]ExecNode, 0, len(g.Nodes)),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		dag.Nodes = append(dag.Nodes, ExecNode{
			ID:         n.ID,
			Op:         mapNodeToOp(n),
			Properties: n.Properties.Clone(),
		})
	}

	projectLayer(g, ir.LayerData, DepData, dag)
	projectLayer(g, ir.LayerControl, DepControl, dag)
	projectLayer(g, ir.LayerMemory, DepMemory, dag)
	projectLayer(g, ir.LayerTime, DepTime, dag)

	if err := injectCapabilityChecks(g, dag); err != nil {
		return nil, err
	}

	slog.Debug("graph lowered",
		"source_nodes", len(g.Nodes),
		"exec_nodes", len(dag.Nodes),
		"exec_edges", len(dag.Edges),
	)

	return dag, nil
}

// mapNodeToOp maps a node's kind tag to its abstract operation.
// Unrecognized kinds become generic effects that keep the tag.
func mapNodeToOp(n *ir.Node) OpKind {
	switch n.Kind {
	case ir.KindPhi:
		arity := DefaultPhiArity
		if a, ok := n.Properties.GetInt(propArity); ok && a > 0 {
			arity = int(a)
		}
		return Phi(arity)
	case ir.KindLoad:
		return OpKind{Code: OpCapLoad}
	case ir.KindStore:
		return OpKind{Code: OpCapStore}
	case ir.KindCall:
		return OpKind{Code: OpCall}
	case ir.KindBranch:
		return OpKind{Code: OpBranch}
	case ir.KindCapability:
		return Effect(EffectCapabilityCheck)
	case ir.KindMmio:
		if n.Properties.GetString(propOperation) == "write" {
			return OpKind{Code: OpMmioWrite}
		}
		return OpKind{Code: OpMmioRead}
	default:
		return Effect(n.Kind)
	}
}

// projectLayer emits one dependency per (source, target) incidence pair of
// every edge on the layer. A multi-source/multi-target hyperedge becomes a
// complete bipartite set of pairwise dependencies.
func projectLayer(g *ir.Graph, layer ir.Layer, kind ExecEdgeKind, dag *ExecDag) {
	for _, e := range g.Edges {
		if e.Layer != layer {
			continue
		}
		sources := g.EdgeSources(e.ID)
		targets := g.EdgeTargets(e.ID)
		for _, from := range sources {
			for _, to := range targets {
				dag.Edges = append(dag.Edges, ExecEdge{From: from, To: to, Kind: kind})
			}
		}
	}
}

// injectCapabilityChecks synthesizes one check node per Load/Store/Call
// and wires it ahead of the operation with an Enable edge. The check node
// copies the resolved capability node's properties so the executor can
// verify bounds and permissions without the source graph.
func injectCapabilityChecks(g *ir.Graph, dag *ExecDag) error {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		switch n.Kind {
		case ir.KindLoad, ir.KindStore, ir.KindCall:
		default:
			continue
		}

		capID, err := resolveCapability(g, n.ID)
		if err != nil {
			return err
		}

		props := ir.Object{}
		if capNode := g.GetNode(capID); capNode != nil {
			props = capNode.Properties.Clone()
			if props == nil {
				props = ir.Object{}
			}
		}
		props[PropCapNode] = ir.String(capID)
		props[PropGates] = ir.String(n.ID)

		checkID := n.ID + CapCheckSuffix
		dag.Nodes = append(dag.Nodes, ExecNode{
			ID:         checkID,
			Op:         Effect(EffectCapabilityCheck),
			Properties: props,
		})
		dag.Edges = append(dag.Edges, ExecEdge{From: checkID, To: n.ID, Kind: DepEnable})
	}
	return nil
}

// resolveCapability follows the cap_out -> Capability edge -> cap_in chain
// from a security-sensitive operation to its capability node.
func resolveCapability(g *ir.Graph, nodeID string) (string, error) {
	for _, inc := range g.Incidences {
		if inc.Node != nodeID || inc.Role != ir.RoleCapOut {
			continue
		}
		edge := g.GetEdge(inc.Edge)
		if edge == nil || edge.Layer != ir.LayerCapability {
			continue
		}
		for _, capInc := range g.Incidences {
			if capInc.Edge == inc.Edge && capInc.Role == ir.RoleCapIn {
				return capInc.Node, nil
			}
		}
	}
	return "", &Error{
		Code:    ErrCodeCapChainMissing,
		NodeID:  nodeID,
		Message: "no capability chain found",
	}
}
