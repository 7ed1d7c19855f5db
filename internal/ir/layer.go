package ir

import (
	"encoding/json"
	"fmt"
)

// Layer identifies one of the eight semantic views overlaid on the shared
// node set. It is a closed enum: exhaustive switches over Layer get
// compile-time coverage when a new view is added.
type Layer int

const (
	// LayerSyntax carries AST structure (ordered child lists).
	LayerSyntax Layer = iota
	// LayerData carries SSA-style dataflow (arg/result/use/def edges).
	LayerData
	// LayerControl carries control-flow successor edges.
	LayerControl
	// LayerMemory carries memory-ordering (MemorySSA) edges.
	LayerMemory
	// LayerTyping carries type-assignment edges.
	LayerTyping
	// LayerEffect carries effect-annotation edges.
	LayerEffect
	// LayerTime carries happens-before edges.
	LayerTime
	// LayerCapability carries capability-security edges.
	LayerCapability

	numLayers
)

var layerNames = [numLayers]string{
	LayerSyntax:     "Syntax",
	LayerData:       "Data",
	LayerControl:    "Control",
	LayerMemory:     "Memory",
	LayerTyping:     "Typing",
	LayerEffect:     "Effect",
	LayerTime:       "Time",
	LayerCapability: "Capability",
}

// Layers returns all recognized layers in declaration order.
func Layers() []Layer {
	out := make([]Layer, numLayers)
	for i := range out {
		out[i] = Layer(i)
	}
	return out
}

// Valid reports whether l is one of the eight recognized layers.
func (l Layer) Valid() bool {
	return l >= 0 && l < numLayers
}

// String returns the canonical layer name, or a diagnostic form for
// out-of-range values.
func (l Layer) String() string {
	if l.Valid() {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// ParseLayer maps a layer name to its Layer value.
func ParseLayer(s string) (Layer, error) {
	for i, name := range layerNames {
		if name == s {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// MarshalJSON encodes the layer as its canonical name.
func (l Layer) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid layer %d", int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a layer from its canonical name.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLayer(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
