package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/eafipg/eafipg/internal/ir"
	"github.com/eafipg/eafipg/internal/lower"
)

// Node property keys consulted by the executor.
const (
	propAddr     = "addr"
	propValue    = "value"
	propRegister = "register"
	propBase     = "base"
	propSize     = "size"
	propPerms    = "perms"
)

// MmioReadPlaceholder is bound by MmioRead when the named register has
// never been written.
const MmioReadPlaceholder int64 = 0xFF

// executeNode dispatches one exec node on its operation kind, mutating
// the runtime. The switch is exhaustive over OpCode so a new operation
// kind fails loudly instead of silently no-oping.
func executeNode(rt *Runtime, dag *lower.ExecDag, node *lower.ExecNode) error {
	switch node.Op.Code {
	case lower.OpPhi:
		rt.Values[node.ID] = phiSelect(rt, dag, node.ID)

	case lower.OpCapLoad:
		addr := nodeAddr(node)
		rt.Values[node.ID] = ir.Int(rt.Memory[addr])

	case lower.OpCapStore:
		addr := nodeAddr(node)
		v, _ := node.Properties.GetInt(propValue)
		rt.Memory[addr] = byte(v)

	case lower.OpMmioRead:
		reg := node.Properties.GetString(propRegister)
		v, ok := rt.Registers[reg]
		if !ok {
			v = MmioReadPlaceholder
		}
		rt.Values[node.ID] = ir.Int(v)

	case lower.OpMmioWrite:
		reg := node.Properties.GetString(propRegister)
		v, _ := node.Properties.GetInt(propValue)
		rt.Registers[reg] = v

	case lower.OpCall, lower.OpBranch:
		// Calls and branches carry no simulation semantics here; they
		// bind a default so downstream phis observe a value.
		rt.Values[node.ID] = ir.Int(0)

	case lower.OpEffect:
		if node.Op.Effect == lower.EffectCapabilityCheck {
			return checkCapability(rt, dag, node)
		}
		// Unrecognized effects are no-ops that still bind a default.
		rt.Values[node.ID] = ir.Null{}

	default:
		return &RuntimeError{
			Code:    ErrCodeNodeNotFound,
			Message: fmt.Sprintf("unknown op code %v", node.Op.Code),
			RunID:   rt.RunID,
			NodeID:  node.ID,
		}
	}
	return nil
}

// phiSelect picks the value of the first dependency that has already
// bound one, in edge order. With no bound predecessor the phi binds null;
// it never blocks.
func phiSelect(rt *Runtime, dag *lower.ExecDag, nodeID string) ir.Value {
	for _, e := range dag.Edges {
		if e.To != nodeID {
			continue
		}
		if v, ok := rt.Values[e.From]; ok {
			return v
		}
	}
	return ir.Null{}
}

// nodeAddr resolves the memory address an operation touches.
func nodeAddr(node *lower.ExecNode) uint64 {
	if a, ok := node.Properties.GetInt(propAddr); ok && a >= 0 {
		return uint64(a)
	}
	return 0
}

// checkCapability validates the operation gated by a synthesized check
// node against the capability's declared bounds and permissions. Check
// nodes without a gates property come from plain Capability graph nodes
// and verify nothing.
//
// Only declared restrictions are enforced: a capability without a perms
// property does not restrict permissions, one without base/size does not
// restrict addresses.
func checkCapability(rt *Runtime, dag *lower.ExecDag, check *lower.ExecNode) error {
	gates := check.Properties.GetString(lower.PropGates)
	if gates == "" {
		rt.Values[check.ID] = ir.Null{}
		return nil
	}

	gated := dag.Node(gates)
	if gated == nil {
		return &RuntimeError{
			Code:    ErrCodeNodeNotFound,
			Message: "gated node not in DAG",
			RunID:   rt.RunID,
			NodeID:  gates,
		}
	}

	if perms := check.Properties.GetString(propPerms); perms != "" {
		need := requiredPerm(gated.Op.Code)
		if need != "" && !containsPerm(perms, need) {
			return NewCapDeniedError(rt.RunID, gates,
				fmt.Sprintf("capability %q lacks %q permission (has %q)",
					check.Properties.GetString(lower.PropCapNode), need, perms))
		}
	}

	base, hasBase := check.Properties.GetInt(propBase)
	size, hasSize := check.Properties.GetInt(propSize)
	if hasBase && hasSize && gated.Op.Code != lower.OpCall {
		addr := int64(nodeAddr(gated))
		// base+size saturates rather than wrapping, so an oversized
		// capability covers the top of the address space instead of
		// flipping the comparison.
		limit := base + size
		if base > 0 && size > math.MaxInt64-base {
			limit = math.MaxInt64
		}
		if addr < base || addr >= limit {
			return NewCapDeniedError(rt.RunID, gates,
				fmt.Sprintf("address %d outside capability range [%d, %d)",
					addr, base, limit))
		}
	}

	rt.Values[check.ID] = ir.Bool(true)
	return nil
}

// requiredPerm maps a gated operation to the permission letter its
// capability must carry.
func requiredPerm(code lower.OpCode) string {
	switch code {
	case lower.OpCapLoad:
		return "r"
	case lower.OpCapStore:
		return "w"
	case lower.OpCall:
		return "x"
	default:
		return ""
	}
}

func containsPerm(perms, need string) bool {
	return strings.Contains(perms, need)
}
