package validator

import (
	"sort"

	"github.com/eafipg/eafipg/internal/ir"
)

// Rule 7: the Syntax, Data, and Time projections must each be a DAG.
// The Memory projection is included only under WithMemoryAcyclic; a Memory
// cycle otherwise surfaces at execution time as unexecuted nodes.
func checkAcyclicLayers(g *ir.Graph, idx *index, includeMemory bool) error {
	layers := []ir.Layer{ir.LayerSyntax, ir.LayerData, ir.LayerTime}
	if includeMemory {
		layers = append(layers, ir.LayerMemory)
	}

	for _, layer := range layers {
		if err := checkAcyclic(g, idx, layer); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic projects one layer's edges into source->target adjacency
// (every source incidence paired with every target incidence) and runs
// Kahn's algorithm over the full node set. Nodes left with a nonzero
// in-degree after the queue drains are on or downstream of a cycle.
func checkAcyclic(g *ir.Graph, idx *index, layer ir.Layer) error {
	indegree := make(map[string]int, len(g.Nodes))
	adjacency := make(map[string][]string)
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
	}

	for _, e := range g.Edges {
		if e.Layer != layer {
			continue
		}
		var sources, targets []string
		for _, inc := range idx.incByEdge[e.ID] {
			switch inc.Role {
			case ir.RoleSource:
				sources = append(sources, inc.Node)
			case ir.RoleTarget:
				targets = append(targets, inc.Node)
			}
		}
		for _, from := range sources {
			for _, to := range targets {
				if _, ok := indegree[from]; !ok {
					continue
				}
				if _, ok := indegree[to]; !ok {
					continue
				}
				adjacency[from] = append(adjacency[from], to)
				indegree[to]++
			}
		}
	}

	queue := make([]string, 0, len(indegree))
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjacency[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited != len(g.Nodes) {
		return newError(ErrLayerCycle, "acyclicity", firstCycleMember(indegree),
			"cycle detected in %s layer", layer)
	}
	return nil
}

// firstCycleMember picks a deterministic representative from the nodes the
// topological sort could not reach.
func firstCycleMember(indegree map[string]int) string {
	var stuck []string
	for id, deg := range indegree {
		if deg > 0 {
			stuck = append(stuck, id)
		}
	}
	if len(stuck) == 0 {
		return ""
	}
	sort.Strings(stuck)
	return stuck[0]
}
