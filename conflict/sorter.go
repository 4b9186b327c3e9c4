package conflict

import (
	aether "github.com/go-aether/resolver"
)

// SortResult is the output of Sort: a total order over conflict ids with
// predecessors (parent groups) before successors (child groups), leaf
// groups last, plus the set of ids that form a cyclic group (an SCC of
// size > 1 in the conflict-id graph) (spec §4.E "E2 - ConflictIdSorter").
type SortResult struct {
	Order  []string
	Cyclic map[string]bool
}

// Sort builds the directed graph of conflict-id "parent produced child"
// edges from root (already marked by Mark) and topologically sorts it,
// using Tarjan's algorithm to first collapse any cycles into strongly
// connected components so a cyclic conflict-id graph still produces a
// total, if partially arbitrary-within-SCC, order instead of failing.
//
// No third-party graph library is used here: nothing in the retrieved
// pack does topological sort, SCC detection, or union-find (see
// DESIGN.md); this is some fifty lines of classic Tarjan, stdlib only by
// necessity rather than by choice of convenience.
func Sort(root *aether.DependencyNode) SortResult {
	g := buildIDGraph(root)
	sccs := tarjanSCC(g)

	cyclic := map[string]bool{}
	for _, scc := range sccs {
		if len(scc) > 1 {
			for _, id := range scc {
				cyclic[id] = true
			}
		}
	}

	// sccOf maps every id to the index of its SCC in sccs; Tarjan already
	// emits sccs in reverse topological order of the condensation graph
	// (a root of an edge u->v finishes after v in the DFS, so the SCC
	// containing u is appended after the SCC containing v) — reversing
	// once here, then flattening each SCC's members, gives the order
	// spec §4.E wants: predecessors (parents) before successors
	// (children), leaves last.
	order := make([]string, 0, len(g.allIDs))
	for i := len(sccs) - 1; i >= 0; i-- {
		order = append(order, sccs[i]...)
	}

	return SortResult{Order: order, Cyclic: cyclic}
}

type idGraph struct {
	edges  map[string]map[string]bool
	allIDs []string
	seen   map[string]bool
}

func buildIDGraph(root *aether.DependencyNode) *idGraph {
	g := &idGraph{edges: map[string]map[string]bool{}, seen: map[string]bool{}}

	register := func(id string) {
		if id == "" || g.seen[id] {
			return
		}
		g.seen[id] = true
		g.allIDs = append(g.allIDs, id)
		g.edges[id] = map[string]bool{}
	}

	root.Walk(func(n *aether.DependencyNode) bool {
		if n.IsCycleStub() || n.Dependency == nil || n.ConflictID == "" {
			return true
		}
		register(n.ConflictID)
		for _, c := range n.Children {
			if c.IsCycleStub() || c.Dependency == nil || c.ConflictID == "" {
				continue
			}
			register(c.ConflictID)
			if c.ConflictID != n.ConflictID {
				g.edges[n.ConflictID][c.ConflictID] = true
			}
		}
		return true
	})
	return g
}

// tarjanSCC returns the graph's strongly connected components, each as a
// []string of ids, in the algorithm's natural completion order.
func tarjanSCC(g *idGraph) [][]string {
	index := 0
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	var result [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for w := range g.edges[v] {
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			result = append(result, scc)
		}
	}

	for _, id := range g.allIDs {
		if _, ok := indices[id]; !ok {
			strongconnect(id)
		}
	}
	return result
}
