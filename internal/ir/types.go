package ir

// Node kinds with dedicated operation semantics. Any other kind lowers to
// a generic effect that preserves the tag for diagnostics.
const (
	KindPhi        = "Phi"
	KindLoad       = "Load"
	KindStore      = "Store"
	KindCall       = "Call"
	KindBranch     = "Branch"
	KindJoin       = "Join"
	KindJump       = "Jump"
	KindCapability = "Capability"
	KindMmio       = "Mmio"
)

// Incidence roles.
const (
	RoleSource = "source"
	RoleTarget = "target"
	RoleCapIn  = "cap_in"
	RoleCapOut = "cap_out"
)

// Edge kinds used by the validator and lowering pass.
const (
	EdgeKindArg = "arg"
	EdgeKindUse = "use"
)

// Node is one program node. Its id is unique within a Graph and is the
// only handle other entities use to reference it.
type Node struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Properties Object `json:"properties,omitempty"`
}

// Edge is a layer-tagged hyperedge. It has no inherent arity; its
// connections are expressed only through Incidence records.
type Edge struct {
	ID         string `json:"id"`
	Layer      Layer  `json:"layer"`
	Kind       string `json:"kind"`
	Properties Object `json:"properties,omitempty"`
}

// Incidence joins one Node to one Edge with a role and optional ordinal.
// A Syntax edge with several "source" incidences at consecutive pos values
// is an ordered AST child list.
type Incidence struct {
	Node       string `json:"node"`
	Edge       string `json:"edge"`
	Role       string `json:"role"`
	Pos        *int   `json:"pos,omitempty"`
	Properties Object `json:"properties,omitempty"`
}

// Graph is the arena owning all nodes, edges, and incidences.
// The JSON field names (singular "node"/"edge"/"incidence" arrays) are the
// wire form produced by the front-ends.
type Graph struct {
	Nodes      []Node      `json:"node"`
	Edges      []Edge      `json:"edge"`
	Incidences []Incidence `json:"incidence"`
}

// GetNode returns the node with the given id, or nil.
func (g *Graph) GetNode(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// GetEdge returns the edge with the given id, or nil.
func (g *Graph) GetEdge(id string) *Edge {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return &g.Edges[i]
		}
	}
	return nil
}

// NodeIncidences returns all incidences attached to the given node.
func (g *Graph) NodeIncidences(nodeID string) []*Incidence {
	var out []*Incidence
	for i := range g.Incidences {
		if g.Incidences[i].Node == nodeID {
			out = append(out, &g.Incidences[i])
		}
	}
	return out
}

// EdgeIncidences returns all incidences attached to the given edge.
func (g *Graph) EdgeIncidences(edgeID string) []*Incidence {
	var out []*Incidence
	for i := range g.Incidences {
		if g.Incidences[i].Edge == edgeID {
			out = append(out, &g.Incidences[i])
		}
	}
	return out
}

// EdgeSources returns the node ids attached to the edge in the "source"
// role, in incidence declaration order.
func (g *Graph) EdgeSources(edgeID string) []string {
	return g.edgeNodesByRole(edgeID, RoleSource)
}

// EdgeTargets returns the node ids attached to the edge in the "target"
// role, in incidence declaration order.
func (g *Graph) EdgeTargets(edgeID string) []string {
	return g.edgeNodesByRole(edgeID, RoleTarget)
}

func (g *Graph) edgeNodesByRole(edgeID, role string) []string {
	var out []string
	for i := range g.Incidences {
		if g.Incidences[i].Edge == edgeID && g.Incidences[i].Role == role {
			out = append(out, g.Incidences[i].Node)
		}
	}
	return out
}

// LayerEdges returns the edges tagged with the given layer, in declaration
// order.
func (g *Graph) LayerEdges(layer Layer) []*Edge {
	var out []*Edge
	for i := range g.Edges {
		if g.Edges[i].Layer == layer {
			out = append(out, &g.Edges[i])
		}
	}
	return out
}
