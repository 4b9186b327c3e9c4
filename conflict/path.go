package conflict

import (
	aether "github.com/go-aether/resolver"
)

// Path is the resolver's own parallel, cycle-free tree over the raw
// graph (spec §3 "Path (conflict-resolver internal)"). Distinct Path
// instances may share the same DependencyNode when multiple routes
// reach it — that sharing, not any per-node visited-set, is what keeps
// the path-based resolver O(N): each Path is built exactly once per
// route, never per node-revisit.
type Path struct {
	Node       *aether.DependencyNode
	Parent     *Path
	ConflictID string
	Depth      int

	// Scope and Optional are this occurrence's derived values (spec §4.E
	// "Scope derivation"), computed top-down as the path tree is built,
	// not yet the group's resolved winner values.
	Scope    string
	Optional bool

	Children   []*Path
	CycleStubs []*aether.DependencyNode
}

// BuildPaths constructs the full Path tree rooted at root. It refuses to
// recurse into cycle-stub children, instead recording them on the
// parent Path's CycleStubs (spec §4.E "Cycle handling": "the path-based
// resolver records cycle stubs as children of the winner but refuses to
// recurse into them during path construction").
func BuildPaths(root *aether.DependencyNode) *Path {
	p := &Path{Node: root, Depth: 0, ConflictID: root.ConflictID}
	if root.Dependency != nil {
		p.Scope = root.Dependency.Scope
		p.Optional = root.Dependency.Optional
	}
	buildChildren(p)
	return p
}

func buildChildren(parent *Path) {
	for _, child := range parent.Node.Children {
		if child.IsCycleStub() {
			parent.CycleStubs = append(parent.CycleStubs, child)
			continue
		}
		declaredScope := ""
		declaredOptional := false
		if child.Dependency != nil {
			declaredScope = child.Dependency.Scope
			declaredOptional = child.Dependency.Optional
		}
		cp := &Path{
			Node:       child,
			Parent:     parent,
			ConflictID: child.ConflictID,
			Depth:      parent.Depth + 1,
			Scope:      deriveScope(parent.Scope, declaredScope, parent.Depth+1),
			Optional:   declaredOptional || parent.Optional,
		}
		parent.Children = append(parent.Children, cp)
		buildChildren(cp)
	}
}

// Walk visits p and every descendant Path, depth-first, in child order.
func (p *Path) Walk(fn func(*Path) bool) {
	if p == nil || !fn(p) {
		return
	}
	for _, c := range p.Children {
		c.Walk(fn)
	}
}
