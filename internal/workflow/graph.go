package workflow

import (
	"context"
	"fmt"
)

// NodeFunc is a single graph step. It reads whatever it needs from state and
// returns the Fragment of keys it wrote. Returning an Interrupt error (see
// interrupt.go) pauses the whole execution instead of failing it.
type NodeFunc func(ctx context.Context, state *State) (Fragment, error)

// Node is one compiled graph vertex.
type Node struct {
	ID      string
	DependsOn []string
	Fn      NodeFunc
}

// Graph is a validated, compiled DAG ready for Execute/Resume.
type Graph struct {
	nodes  map[string]*Node
	levels [][]string // topological levels: level i only depends on levels < i
}

// Compile validates nodes (no duplicate IDs, no dangling dependency, no
// cycle) and computes their topological levels for parallel execution.
func Compile(nodes ...*Node) (*Graph, error) {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("workflow: duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("workflow: node %q depends on unknown node %q", n.ID, dep)
			}
		}
	}

	levels, err := topologicalLevels(byID)
	if err != nil {
		return nil, err
	}

	return &Graph{nodes: byID, levels: levels}, nil
}

// topologicalLevels groups nodes into levels via Kahn's algorithm: level 0
// has no dependencies, level i depends only on nodes in levels < i. A
// remaining non-empty node set after the loop indicates a cycle.
func topologicalLevels(nodes map[string]*Node) ([][]string, error) {
	remaining := make(map[string][]string, len(nodes))
	for id, n := range nodes {
		remaining[id] = append([]string{}, n.DependsOn...)
	}

	var levels [][]string
	done := make(map[string]bool, len(nodes))

	for len(done) < len(nodes) {
		var level []string
		for id, deps := range remaining {
			if done[id] {
				continue
			}
			ready := true
			for _, d := range deps {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			return nil, fmt.Errorf("workflow: dependency cycle detected among remaining nodes")
		}
		for _, id := range level {
			done[id] = true
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// IDs returns every node ID in the graph, in no particular order.
func (g *Graph) IDs() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	return out
}
