package validator

import (
	"sort"

	"github.com/eafipg/eafipg/internal/ir"
)

// Option configures validation behavior.
type Option func(*options)

type options struct {
	strictPhi     bool
	memoryAcyclic bool
}

// WithStrictPhi disables the incremental-construction relaxation for Phi
// nodes: a Phi with no incoming arg edges, fewer than two argument
// positions, or an arity that does not match its control predecessor count
// becomes a hard failure. The default accepts such nodes so partially
// constructed graphs can be checked during front-end development.
func WithStrictPhi() Option {
	return func(o *options) { o.strictPhi = true }
}

// WithMemoryAcyclic extends the acyclicity check to the Memory layer.
// By default Memory cycles are only detected at execution time, when the
// scheduler finds unexecuted nodes after its queue drains.
func WithMemoryAcyclic() Option {
	return func(o *options) { o.memoryAcyclic = true }
}

// Validate runs the ten structural checks in sequence, returning the first
// violation as a *Error. A nil return means the graph is safe to lower.
func Validate(g *ir.Graph, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	idx := buildIndex(g)

	checks := []func() error{
		func() error { return checkIDsUnique(g) },
		func() error { return checkRefsExist(g, idx) },
		func() error { return checkLayers(g) },
		func() error { return checkSyntaxPositions(g, idx) },
		func() error { return checkPhiConsistency(g, idx, o.strictPhi) },
		func() error { return checkCapabilityPresence(g, idx) },
		func() error { return checkAcyclicLayers(g, idx, o.memoryAcyclic) },
		func() error { return checkMemoryArity(g, idx) },
		func() error { return checkBlockShapes(g, idx) },
		func() error { return checkMmioTiming(g, idx) },
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// index holds lookup maps shared by the checks. Incidence slices preserve
// declaration order.
type index struct {
	nodes     map[string]*ir.Node
	edges     map[string]*ir.Edge
	incByNode map[string][]*ir.Incidence
	incByEdge map[string][]*ir.Incidence
}

func buildIndex(g *ir.Graph) *index {
	idx := &index{
		nodes:     make(map[string]*ir.Node, len(g.Nodes)),
		edges:     make(map[string]*ir.Edge, len(g.Edges)),
		incByNode: make(map[string][]*ir.Incidence),
		incByEdge: make(map[string][]*ir.Incidence),
	}
	for i := range g.Nodes {
		idx.nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for i := range g.Edges {
		idx.edges[g.Edges[i].ID] = &g.Edges[i]
	}
	for i := range g.Incidences {
		inc := &g.Incidences[i]
		idx.incByNode[inc.Node] = append(idx.incByNode[inc.Node], inc)
		idx.incByEdge[inc.Edge] = append(idx.incByEdge[inc.Edge], inc)
	}
	return idx
}

// Rule 1: no duplicate node or edge ids.
func checkIDsUnique(g *ir.Graph) error {
	seenNodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seenNodes[n.ID] {
			return newError(ErrDuplicateID, "id-uniqueness", n.ID, "duplicate node id")
		}
		seenNodes[n.ID] = true
	}

	seenEdges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if seenEdges[e.ID] {
			return newError(ErrDuplicateID, "id-uniqueness", e.ID, "duplicate edge id")
		}
		seenEdges[e.ID] = true
	}
	return nil
}

// Rule 2: every incidence resolves to an existing node and edge.
func checkRefsExist(g *ir.Graph, idx *index) error {
	for _, inc := range g.Incidences {
		if _, ok := idx.nodes[inc.Node]; !ok {
			return newError(ErrDanglingReference, "referential-integrity", inc.Node,
				"incidence references nonexistent node")
		}
		if _, ok := idx.edges[inc.Edge]; !ok {
			return newError(ErrDanglingReference, "referential-integrity", inc.Edge,
				"incidence references nonexistent edge")
		}
	}
	return nil
}

// Rule 3: every edge layer is one of the eight recognized views.
func checkLayers(g *ir.Graph) error {
	for _, e := range g.Edges {
		if !e.Layer.Valid() {
			return newError(ErrInvalidLayer, "layer-validity", e.ID,
				"invalid edge layer %d", int(e.Layer))
		}
	}
	return nil
}

// Rule 4: for every Syntax edge, source positions form a dense 0..k-1
// sequence with no gaps or duplicates.
func checkSyntaxPositions(g *ir.Graph, idx *index) error {
	for _, e := range g.Edges {
		if e.Layer != ir.LayerSyntax {
			continue
		}

		var positions []int
		for _, inc := range idx.incByEdge[e.ID] {
			if inc.Role == ir.RoleSource && inc.Pos != nil {
				positions = append(positions, *inc.Pos)
			}
		}

		sort.Ints(positions)
		for i, pos := range positions {
			if i > 0 && pos == positions[i-1] {
				return newError(ErrSyntaxPosition, "syntax-ordering", e.ID,
					"duplicate child position %d", pos)
			}
			if pos != i {
				return newError(ErrSyntaxPosition, "syntax-ordering", e.ID,
					"child positions have a gap: expected %d, got %d", i, pos)
			}
		}
	}
	return nil
}

// Rule 5: a Phi's argument arity must equal its control predecessor count.
// Relaxed by default for incremental construction; see WithStrictPhi.
func checkPhiConsistency(g *ir.Graph, idx *index, strict bool) error {
	for _, n := range g.Nodes {
		if n.Kind != ir.KindPhi {
			continue
		}

		// Incoming Data/"arg" edges: the phi sits in the target role.
		var argEdges []*ir.Edge
		for _, inc := range idx.incByNode[n.ID] {
			if inc.Role != ir.RoleTarget {
				continue
			}
			e := idx.edges[inc.Edge]
			if e != nil && e.Layer == ir.LayerData && e.Kind == ir.EdgeKindArg {
				argEdges = append(argEdges, e)
			}
		}

		if len(argEdges) == 0 {
			if strict {
				return newError(ErrPhiArity, "phi-consistency", n.ID,
					"phi node has no incoming arg edges")
			}
			continue // vacuously valid during incremental construction
		}

		// Arity is the number of distinct source positions across arg edges.
		positions := make(map[int]bool)
		for _, e := range argEdges {
			for _, inc := range idx.incByEdge[e.ID] {
				if inc.Role == ir.RoleSource && inc.Pos != nil {
					positions[*inc.Pos] = true
				}
			}
		}
		arity := len(positions)

		if arity < 2 {
			if strict {
				return newError(ErrPhiArity, "phi-consistency", n.ID,
					"phi has %d argument positions, need at least 2", arity)
			}
			continue
		}

		// Incoming Control edges are the phi's control predecessors.
		controlPreds := 0
		for _, inc := range idx.incByNode[n.ID] {
			if inc.Role != ir.RoleTarget {
				continue
			}
			if e := idx.edges[inc.Edge]; e != nil && e.Layer == ir.LayerControl {
				controlPreds++
			}
		}

		if controlPreds != arity {
			if strict {
				return newError(ErrPhiArity, "phi-consistency", n.ID,
					"phi arity %d does not match %d control predecessors", arity, controlPreds)
			}
			continue
		}
	}
	return nil
}

// Rule 6: every Load/Store/Call has a cap_out incidence to a
// Capability-layer "use" edge.
func checkCapabilityPresence(g *ir.Graph, idx *index) error {
	for _, n := range g.Nodes {
		if !isSecuritySensitive(n.Kind) {
			continue
		}

		granted := false
		for _, inc := range idx.incByNode[n.ID] {
			if inc.Role != ir.RoleCapOut {
				continue
			}
			e := idx.edges[inc.Edge]
			if e != nil && e.Layer == ir.LayerCapability && e.Kind == ir.EdgeKindUse {
				granted = true
				break
			}
		}

		if !granted {
			return newError(ErrMissingCapability, "capability-presence", n.ID,
				"%s node requires a capability use edge", n.Kind)
		}
	}
	return nil
}

// isSecuritySensitive reports whether a node kind requires a capability
// grant before execution.
func isSecuritySensitive(kind string) bool {
	switch kind {
	case ir.KindLoad, ir.KindStore, ir.KindCall:
		return true
	}
	return false
}

// Rule 8: every Memory edge connects at least 2 nodes. Placeholder for
// full alias-class/MemorySSA verification.
func checkMemoryArity(g *ir.Graph, idx *index) error {
	for _, e := range g.Edges {
		if e.Layer != ir.LayerMemory {
			continue
		}
		if len(idx.incByEdge[e.ID]) < 2 {
			return newError(ErrMemoryArity, "memory-ordering", e.ID,
				"memory edge must connect at least 2 nodes")
		}
	}
	return nil
}

// Rule 9: Branch nodes need >=2 outgoing Control edges, Join exactly 1.
func checkBlockShapes(g *ir.Graph, idx *index) error {
	for _, n := range g.Nodes {
		if n.Kind != ir.KindBranch && n.Kind != ir.KindJoin {
			continue
		}

		outgoing := 0
		for _, inc := range idx.incByNode[n.ID] {
			if inc.Role != ir.RoleSource {
				continue
			}
			if e := idx.edges[inc.Edge]; e != nil && e.Layer == ir.LayerControl {
				outgoing++
			}
		}

		switch n.Kind {
		case ir.KindBranch:
			if outgoing < 2 {
				return newError(ErrBlockShape, "block-well-formedness", n.ID,
					"branch node must have at least 2 outgoing control edges, has %d", outgoing)
			}
		case ir.KindJoin:
			if outgoing != 1 {
				return newError(ErrBlockShape, "block-well-formedness", n.ID,
					"join node must have exactly 1 outgoing control edge, has %d", outgoing)
			}
		}
	}
	return nil
}

// Rule 10: every Mmio node participates in at least one Time-layer edge.
func checkMmioTiming(g *ir.Graph, idx *index) error {
	for _, n := range g.Nodes {
		if n.Kind != ir.KindMmio {
			continue
		}

		timed := false
		for _, inc := range idx.incByNode[n.ID] {
			if e := idx.edges[inc.Edge]; e != nil && e.Layer == ir.LayerTime {
				timed = true
				break
			}
		}

		if !timed {
			return newError(ErrMmioUntimed, "mmio-ordering", n.ID,
				"mmio node must have a time ordering edge")
		}
	}
	return nil
}
