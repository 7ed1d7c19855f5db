package ir

import (
	"encoding/json"
	"fmt"
)

// DecodeGraph parses the JSON object form of a graph document:
// one object with "node", "edge", and "incidence" arrays. Properties are
// decoded strictly through the Value union, so documents containing floats
// are rejected here rather than corrupting downstream hashing.
func DecodeGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &g, nil
}

// EncodeGraph serializes a graph back to its JSON object form with RFC 8785
// key ordering inside property objects. Used by the store and the CLI.
func EncodeGraph(g *Graph) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}
