package lower

import "fmt"

// OpCode identifies an abstract operation. It is a closed enum so the
// executor's dispatch switch gets compile-time coverage when operations
// are added.
type OpCode int

const (
	// OpPhi selects a value by control predecessor.
	OpPhi OpCode = iota
	// OpCapLoad is a capability-gated memory read.
	OpCapLoad
	// OpCapStore is a capability-gated memory write.
	OpCapStore
	// OpCall is a capability-gated call.
	OpCall
	// OpBranch is a conditional control transfer.
	OpBranch
	// OpMmioRead reads an external register.
	OpMmioRead
	// OpMmioWrite writes an external register.
	OpMmioWrite
	// OpEffect is a generic effect dispatched by its Effect tag.
	OpEffect
)

var opCodeNames = map[OpCode]string{
	OpPhi:       "Phi",
	OpCapLoad:   "CapLoad",
	OpCapStore:  "CapStore",
	OpCall:      "Call",
	OpBranch:    "Branch",
	OpMmioRead:  "MmioRead",
	OpMmioWrite: "MmioWrite",
	OpEffect:    "Effect",
}

// String returns the operation name.
func (c OpCode) String() string {
	if name, ok := opCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("OpCode(%d)", int(c))
}

// EffectCapabilityCheck is the effect tag of synthesized capability-check
// nodes and of nodes of kind Capability.
const EffectCapabilityCheck = "capability_check"

// OpKind is an operation with its payload: Arity for OpPhi, Effect for
// OpEffect. Other codes carry neither.
type OpKind struct {
	Code   OpCode `json:"code"`
	Arity  int    `json:"arity,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// Phi returns the phi operation with the given argument arity.
func Phi(arity int) OpKind {
	return OpKind{Code: OpPhi, Arity: arity}
}

// Effect returns the generic effect operation with the given tag.
// The tag preserves the source node's kind for diagnostics.
func Effect(kind string) OpKind {
	return OpKind{Code: OpEffect, Effect: kind}
}

// String renders the operation for diagnostics: "Phi(2)",
// "Effect(capability_check)", "CapLoad".
func (k OpKind) String() string {
	switch k.Code {
	case OpPhi:
		return fmt.Sprintf("Phi(%d)", k.Arity)
	case OpEffect:
		return fmt.Sprintf("Effect(%s)", k.Effect)
	default:
		return k.Code.String()
	}
}
