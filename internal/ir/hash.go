package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without id collisions.
const (
	DomainGraph    = "eafipg/graph/v1"
	DomainSnapshot = "eafipg/snapshot/v1"
)

// hashWithDomain computes SHA-256 over domain + 0x00 + data. The null
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashValue computes the content-addressed identity of any canonical
// value under the given domain. Callers outside this package use it for
// derived documents such as runtime snapshots.
func HashValue(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("HashValue: marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// GraphHash computes the content-addressed identity of a graph.
// Two graphs with the same nodes, edges, and incidences (in the same
// declaration order) hash identically regardless of how they were built.
func GraphHash(g *Graph) (string, error) {
	doc, err := graphToValue(g)
	if err != nil {
		return "", fmt.Errorf("GraphHash: %w", err)
	}
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("GraphHash: marshal: %w", err)
	}
	return hashWithDomain(DomainGraph, canonical), nil
}

// graphToValue converts a graph into the Value form consumed by
// MarshalCanonical. Declaration order of the three entity slices is
// preserved; property objects get canonical key order during marshaling.
func graphToValue(g *Graph) (Value, error) {
	nodes := make(Array, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = Object{
			"id":         String(n.ID),
			"kind":       String(n.Kind),
			"properties": propsOrEmpty(n.Properties),
		}
	}

	edges := make(Array, len(g.Edges))
	for i, e := range g.Edges {
		if !e.Layer.Valid() {
			return nil, fmt.Errorf("edge %s has invalid layer %d", e.ID, int(e.Layer))
		}
		edges[i] = Object{
			"id":         String(e.ID),
			"layer":      String(e.Layer.String()),
			"kind":       String(e.Kind),
			"properties": propsOrEmpty(e.Properties),
		}
	}

	incidences := make(Array, len(g.Incidences))
	for i, inc := range g.Incidences {
		obj := Object{
			"node":       String(inc.Node),
			"edge":       String(inc.Edge),
			"role":       String(inc.Role),
			"properties": propsOrEmpty(inc.Properties),
		}
		if inc.Pos != nil {
			obj["pos"] = Int(*inc.Pos)
		}
		incidences[i] = obj
	}

	return Object{
		"node":      nodes,
		"edge":      edges,
		"incidence": incidences,
	}, nil
}

func propsOrEmpty(props Object) Object {
	if props == nil {
		return Object{}
	}
	return props
}
