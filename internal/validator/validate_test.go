package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eafipg/eafipg/internal/ir"
)

// =============================================================================
// Rule 1: id uniqueness
// =============================================================================

func TestValidateDuplicateNodeID(t *testing.T) {
	g := ir.NewBuilder().
		Node("dup", "Const", nil).
		Node("dup", "Const", nil).
		Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateID, CodeOf(err))
	assert.Contains(t, err.Error(), "dup")
}

func TestValidateDuplicateEdgeID(t *testing.T) {
	g := ir.NewBuilder().
		Edge("e", ir.LayerData, "arg").
		Edge("e", ir.LayerData, "arg").
		Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrDuplicateID, CodeOf(err))
}

// =============================================================================
// Rule 2: referential integrity
// =============================================================================

func TestValidateDanglingNodeReference(t *testing.T) {
	g := ir.NewBuilder().
		Edge("e1", ir.LayerData, "arg").
		Connect("ghost", "e1", ir.RoleSource).
		Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrDanglingReference, CodeOf(err))
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateDanglingEdgeReference(t *testing.T) {
	g := ir.NewBuilder().
		Node("a", "Const", nil).
		Connect("a", "ghost-edge", ir.RoleSource).
		Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrDanglingReference, CodeOf(err))
}

// =============================================================================
// Rule 3: layer validity
// =============================================================================

func TestValidateInvalidLayer(t *testing.T) {
	g := &ir.Graph{Edges: []ir.Edge{{ID: "e1", Layer: ir.Layer(42), Kind: "x"}}}

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidLayer, CodeOf(err))
}

// =============================================================================
// Rule 4: syntax ordering
// =============================================================================

func syntaxChildGraph(positions ...int) *ir.Graph {
	b := ir.NewBuilder().
		Node("parent", "Block", nil).
		Edge("children", ir.LayerSyntax, "child").
		Connect("parent", "children", ir.RoleTarget)
	for i, pos := range positions {
		id := string(rune('a' + i))
		b.Node(id, "Stmt", nil).ConnectAt(id, "children", ir.RoleSource, pos)
	}
	return b.Graph()
}

func TestValidateSyntaxPositions(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		wantCode  string
	}{
		{"dense sequence passes", []int{0, 1, 2}, ""},
		{"gap fails", []int{0, 1, 3}, ErrSyntaxPosition},
		{"duplicate fails", []int{0, 0, 1}, ErrSyntaxPosition},
		{"missing zero fails", []int{1, 2}, ErrSyntaxPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(syntaxChildGraph(tt.positions...))
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, CodeOf(err))
			}
		})
	}
}

// =============================================================================
// Rule 5: phi consistency
// =============================================================================

// phiGraph builds a Phi with two arg positions and the given number of
// incoming control edges.
func phiGraph(controlPreds int) *ir.Graph {
	b := ir.NewBuilder().
		Node("phi", ir.KindPhi, nil).
		Node("v0", "Const", nil).
		Node("v1", "Const", nil).
		Edge("args", ir.LayerData, ir.EdgeKindArg).
		ConnectAt("v0", "args", ir.RoleSource, 0).
		ConnectAt("v1", "args", ir.RoleSource, 1).
		Connect("phi", "args", ir.RoleTarget)
	for i := 0; i < controlPreds; i++ {
		pred := "pred" + string(rune('0'+i))
		edge := "c" + string(rune('0'+i))
		b.Node(pred, "Block", nil).Dep(edge, ir.LayerControl, "succ", pred, "phi")
	}
	return b.Graph()
}

func TestValidatePhiRelaxedByDefault(t *testing.T) {
	// Bare phi with no arg edges: vacuously valid.
	bare := ir.NewBuilder().Node("phi", ir.KindPhi, nil).Graph()
	assert.NoError(t, Validate(bare))

	// Mismatched control predecessors: tolerated without strict mode.
	assert.NoError(t, Validate(phiGraph(1)))
}

func TestValidatePhiStrict(t *testing.T) {
	bare := ir.NewBuilder().Node("phi", ir.KindPhi, nil).Graph()
	err := Validate(bare, WithStrictPhi())
	require.Error(t, err)
	assert.Equal(t, ErrPhiArity, CodeOf(err))

	err = Validate(phiGraph(1), WithStrictPhi())
	require.Error(t, err)
	assert.Equal(t, ErrPhiArity, CodeOf(err))

	assert.NoError(t, Validate(phiGraph(2), WithStrictPhi()))
}

func TestValidatePhiStrictRejectsSingleArgPosition(t *testing.T) {
	// One arg position with one matching control predecessor: tolerated
	// by default, but strict mode requires at least two positions.
	g := ir.NewBuilder().
		Node("phi", ir.KindPhi, nil).
		Node("v0", "Const", nil).
		Node("pred", "Block", nil).
		Edge("args", ir.LayerData, ir.EdgeKindArg).
		ConnectAt("v0", "args", ir.RoleSource, 0).
		Connect("phi", "args", ir.RoleTarget).
		Dep("c0", ir.LayerControl, "succ", "pred", "phi").
		Graph()

	assert.NoError(t, Validate(g))

	err := Validate(g, WithStrictPhi())
	require.Error(t, err)
	assert.Equal(t, ErrPhiArity, CodeOf(err))
}

// =============================================================================
// Rule 6: capability presence
// =============================================================================

func TestValidateLoadWithoutCapabilityFails(t *testing.T) {
	g := ir.NewBuilder().Node("ld", ir.KindLoad, nil).Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrMissingCapability, CodeOf(err))
	assert.Contains(t, err.Error(), "ld")
}

func TestValidateLoadWithCapabilityPasses(t *testing.T) {
	g := ir.NewBuilder().
		Node("cap", ir.KindCapability, nil).
		Node("ld", ir.KindLoad, nil).
		Grant("c1", "cap", "ld").
		Graph()

	assert.NoError(t, Validate(g))
}

func TestValidateStoreAndCallRequireCapability(t *testing.T) {
	for _, kind := range []string{ir.KindStore, ir.KindCall} {
		g := ir.NewBuilder().Node("op", kind, nil).Graph()
		err := Validate(g)
		require.Error(t, err, kind)
		assert.Equal(t, ErrMissingCapability, CodeOf(err), kind)
	}
}

// =============================================================================
// Rule 7: acyclicity
// =============================================================================

func threeNodeGraph(layer ir.Layer, cyclic bool) *ir.Graph {
	b := ir.NewBuilder().
		Node("a", "Const", nil).
		Node("b", "Const", nil).
		Node("c", "Const", nil).
		Dep("e1", layer, "dep", "a", "b").
		Dep("e2", layer, "dep", "b", "c")
	if cyclic {
		b.Dep("e3", layer, "dep", "c", "a")
	}
	return b.Graph()
}

func TestValidateDataLayerCycle(t *testing.T) {
	err := Validate(threeNodeGraph(ir.LayerData, true))
	require.Error(t, err)
	assert.Equal(t, ErrLayerCycle, CodeOf(err))
	assert.Contains(t, err.Error(), "Data")

	assert.NoError(t, Validate(threeNodeGraph(ir.LayerData, false)))
}

func TestValidateSyntaxAndTimeLayerCycles(t *testing.T) {
	for _, layer := range []ir.Layer{ir.LayerSyntax, ir.LayerTime} {
		err := Validate(threeNodeGraph(layer, true))
		require.Error(t, err, layer.String())
		assert.Equal(t, ErrLayerCycle, CodeOf(err), layer.String())
	}
}

func TestValidateMemoryCycleNotCheckedByDefault(t *testing.T) {
	g := threeNodeGraph(ir.LayerMemory, true)

	assert.NoError(t, Validate(g), "memory cycles surface at execution time")

	err := Validate(g, WithMemoryAcyclic())
	require.Error(t, err)
	assert.Equal(t, ErrLayerCycle, CodeOf(err))
	assert.Contains(t, err.Error(), "Memory")
}

func TestValidateControlCycleAllowed(t *testing.T) {
	// Loops in control flow are legal; only Syntax/Data/Time must be DAGs.
	assert.NoError(t, Validate(threeNodeGraph(ir.LayerControl, true)))
}

// =============================================================================
// Rule 8: memory ordering
// =============================================================================

func TestValidateMemoryEdgeArity(t *testing.T) {
	g := ir.NewBuilder().
		Node("st", "Fence", nil).
		Edge("m1", ir.LayerMemory, "order").
		Connect("st", "m1", ir.RoleSource).
		Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.Equal(t, ErrMemoryArity, CodeOf(err))
	assert.Contains(t, err.Error(), "m1")
}

// =============================================================================
// Rule 9: block well-formedness
// =============================================================================

func branchGraph(outgoing int) *ir.Graph {
	b := ir.NewBuilder().Node("br", ir.KindBranch, nil)
	for i := 0; i < outgoing; i++ {
		succ := "s" + string(rune('0'+i))
		edge := "c" + string(rune('0'+i))
		b.Node(succ, "Block", nil).Dep(edge, ir.LayerControl, "succ", "br", succ)
	}
	return b.Graph()
}

func TestValidateBranchCardinality(t *testing.T) {
	err := Validate(branchGraph(1))
	require.Error(t, err)
	assert.Equal(t, ErrBlockShape, CodeOf(err))

	assert.NoError(t, Validate(branchGraph(2)))
	assert.NoError(t, Validate(branchGraph(3)))
}

func TestValidateJoinCardinality(t *testing.T) {
	join := func(outgoing int) *ir.Graph {
		b := ir.NewBuilder().Node("jn", ir.KindJoin, nil)
		for i := 0; i < outgoing; i++ {
			succ := "s" + string(rune('0'+i))
			edge := "c" + string(rune('0'+i))
			b.Node(succ, "Block", nil).Dep(edge, ir.LayerControl, "succ", "jn", succ)
		}
		return b.Graph()
	}

	err := Validate(join(0))
	require.Error(t, err)
	assert.Equal(t, ErrBlockShape, CodeOf(err))

	err = Validate(join(2))
	require.Error(t, err)
	assert.Equal(t, ErrBlockShape, CodeOf(err))

	assert.NoError(t, Validate(join(1)))
}

// =============================================================================
// Rule 10: MMIO ordering
// =============================================================================

func TestValidateMmioRequiresTimeEdge(t *testing.T) {
	untimed := ir.NewBuilder().Node("mmio", ir.KindMmio, nil).Graph()
	err := Validate(untimed)
	require.Error(t, err)
	assert.Equal(t, ErrMmioUntimed, CodeOf(err))

	timed := ir.NewBuilder().
		Node("mmio", ir.KindMmio, nil).
		Node("after", "Fence", nil).
		Dep("t1", ir.LayerTime, "before", "mmio", "after").
		Graph()
	assert.NoError(t, Validate(timed))
}

// =============================================================================
// Whole-graph smoke
// =============================================================================

func TestValidateEmptyGraph(t *testing.T) {
	assert.NoError(t, Validate(&ir.Graph{}))
}

func TestValidateErrorTaxonomy(t *testing.T) {
	g := ir.NewBuilder().Node("ld", ir.KindLoad, nil).Graph()

	err := Validate(g)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(assert.AnError))
}
