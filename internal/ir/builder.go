package ir

// Builder assembles a Graph incrementally. It is a construction aid for
// front-ends and tests; it performs no validation, so invalid structures
// (dangling references, duplicate ids) are only caught by the validator.
type Builder struct {
	g Graph
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Node adds a node. Props may be nil.
func (b *Builder) Node(id, kind string, props Object) *Builder {
	b.g.Nodes = append(b.g.Nodes, Node{ID: id, Kind: kind, Properties: props})
	return b
}

// Edge adds a layer-tagged edge with no incidences. Connect attaches nodes.
func (b *Builder) Edge(id string, layer Layer, kind string) *Builder {
	b.g.Edges = append(b.g.Edges, Edge{ID: id, Layer: layer, Kind: kind})
	return b
}

// Connect attaches a node to an edge in the given role.
func (b *Builder) Connect(nodeID, edgeID, role string) *Builder {
	b.g.Incidences = append(b.g.Incidences, Incidence{Node: nodeID, Edge: edgeID, Role: role})
	return b
}

// ConnectAt attaches a node to an edge in the given role at an ordinal
// position. Used for Syntax child lists and Phi arg positions.
func (b *Builder) ConnectAt(nodeID, edgeID, role string, pos int) *Builder {
	p := pos
	b.g.Incidences = append(b.g.Incidences, Incidence{Node: nodeID, Edge: edgeID, Role: role, Pos: &p})
	return b
}

// Dep adds an edge on the given layer together with one source and one
// target incidence. This is the common binary-dependency shape; multi-ended
// hyperedges use Edge plus explicit Connect calls.
func (b *Builder) Dep(edgeID string, layer Layer, kind, from, to string) *Builder {
	return b.Edge(edgeID, layer, kind).
		Connect(from, edgeID, RoleSource).
		Connect(to, edgeID, RoleTarget)
}

// Grant wires a capability node to a security-sensitive operation: a
// Capability-layer "use" edge with the capability in the cap_in role and
// the operation in the cap_out role. This is the chain the capability
// presence check requires and the lowering pass resolves.
func (b *Builder) Grant(edgeID, capNodeID, opNodeID string) *Builder {
	return b.Edge(edgeID, LayerCapability, EdgeKindUse).
		Connect(capNodeID, edgeID, RoleCapIn).
		Connect(opNodeID, edgeID, RoleCapOut)
}

// Graph returns the assembled graph. The builder must not be reused after
// this call.
func (b *Builder) Graph() *Graph {
	return &b.g
}
