package compiler

import (
	"fmt"
	"slices"
	"strings"
)

// ReferenceCycle is a set of bindings whose data reach each other.
//
// Bindings are immutable once built, so a binding can only hold bindings
// that already exist. A cycle has no construction order and is an error.
type ReferenceCycle struct {
	Path    []string `json:"path"` // ["a", "b", "a"]
	Message string   `json:"message"`
}

// referenceGraph maps binding name → bindings its data references.
type referenceGraph map[string][]string

// buildReferenceGraph collects the references of every binding's parsed
// data. Every binding gets a node even when it references nothing.
func buildReferenceGraph(data map[string][]node) referenceGraph {
	graph := make(referenceGraph, len(data))
	for name, nodes := range data {
		edges := []string{}
		for _, n := range nodes {
			edges = references(n, edges)
		}
		graph[name] = edges
	}
	return graph
}

// findCycles reports each strongly connected component of size > 1 and
// every self-reference. Output is sorted by the first path element.
func findCycles(graph referenceGraph) []ReferenceCycle {
	var cycles []ReferenceCycle
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}
	slices.SortFunc(cycles, func(a, b ReferenceCycle) int {
		return strings.Compare(a.Path[0], b.Path[0])
	})
	return cycles
}

// topoOrder returns binding names so that every binding follows the
// bindings it references. The graph must be acyclic.
func topoOrder(graph referenceGraph) []string {
	// Tarjan emits a component only after every component reachable from it.
	var order []string
	for _, scc := range tarjanSCC(graph) {
		order = append(order, scc...)
	}
	return order
}

func hasSelfLoop(node string, graph referenceGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so output is deterministic.
func tarjanSCC(graph referenceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, ok := graph[w]; !ok {
				// Unknown reference, reported elsewhere.
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func sccToCycle(scc []string, graph referenceGraph) ReferenceCycle {
	if len(scc) == 1 {
		name := scc[0]
		return ReferenceCycle{
			Path:    []string{name, name},
			Message: fmt.Sprintf("binding references itself: %s → %s", name, name),
		}
	}
	path := reconstructCyclePath(scc, graph)
	return ReferenceCycle{
		Path:    path,
		Message: fmt.Sprintf("reference cycle: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath walks edges inside the SCC from its first member
// until it returns to the start.
func reconstructCyclePath(scc []string, graph referenceGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
