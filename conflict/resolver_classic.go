package conflict

import (
	aether "github.com/go-aether/resolver"
)

// ResolveClassic is the O(N^2) conflict resolver kept only for back-compat
// testing against Resolve's output (spec §4.E "E3 - two implementations...
// the classic approach is retained only for backward-compatible testing
// and is never the default"). Rather than building a Path tree once, it
// re-walks the whole graph from root for every conflict group to recompute
// each occurrence's depth, which is what makes it quadratic in graph size.
//
// It is a strict subset of Resolve: scope derivation is not recursively
// widened through ancestors, an occurrence's own declared scope is used
// directly, and cycle stubs are left exactly where the collector attached
// them rather than being explicitly adopted onto the winner.
func ResolveClassic(root *aether.DependencyNode, opts ResolveOptions) (*Result, error) {
	Mark(root)
	sorted := Sort(root)

	winners := map[string]*aether.DependencyNode{}

	for _, id := range sorted.Order {
		items := collectItemsClassic(root, id)
		if len(items) == 0 {
			continue
		}

		winner, err := pickWinner(items, opts)
		if err != nil {
			return nil, err
		}

		if opts.Compatibility != nil {
			if cerr := opts.Compatibility(id, winner.Version); cerr != nil {
				return nil, &IncompatibleVersionsError{ConflictID: id, Reason: cerr.Error()}
			}
		}
		if opts.EnforceConvergence {
			if violated := rangeViolations(winner.Version, items); len(violated) > 0 {
				return nil, &VersionConvergenceError{ConflictID: id, Winner: winner.Version, Violated: violated}
			}
		}

		scope := opts.scopeSelector().Select(winner, items)
		optional := opts.optionalitySelector().Select(winner, items)
		winner.Node.SetScope(scope)
		winner.Node.SetOptional(optional)
		winners[id] = winner.Node

		applyVerbosityClassic(winner.Node, items, opts.Verbosity)
	}

	return &Result{Root: root, Winners: winners, Cyclic: sorted.Cyclic}, nil
}

// collectItemsClassic re-walks the entire graph from root, recomputing
// every node's depth from scratch, and keeps only the occurrences whose
// ConflictID matches id.
func collectItemsClassic(root *aether.DependencyNode, id string) []ConflictItem {
	var items []ConflictItem
	var walk func(n, parent *aether.DependencyNode, depth int)
	walk = func(n, parent *aether.DependencyNode, depth int) {
		if n.IsCycleStub() || n.Dependency == nil {
			return
		}
		if n.ConflictID == id {
			items = append(items, ConflictItem{
				Node:     n,
				Parent:   parent,
				Version:  n.Dependency.Artifact.Version,
				Depth:    depth,
				Scope:    n.Dependency.Scope,
				Optional: n.Dependency.Optional,
			})
		}
		for _, c := range n.Children {
			walk(c, n, depth+1)
		}
	}
	walk(root, nil, 0)
	return items
}

// applyVerbosityClassic mirrors applyVerbosity's STANDARD/NONE/FULL
// semantics (spec §4.E step 5); see removeRedundantRangeSiblings and
// sameCoordinate in resolver.go for the shared rules.
func applyVerbosityClassic(winner *aether.DependencyNode, items []ConflictItem, level Verbosity) {
	var redundant map[*aether.DependencyNode]bool
	if level == VerbosityStandard {
		redundant = removeRedundantRangeSiblings(winner, items)
	}

	for _, it := range items {
		if it.Node == winner || redundant[it.Node] {
			continue
		}
		loser := it.Node
		if loser.Data == nil {
			loser.Data = map[string]interface{}{}
		}
		loser.Data["conflict.winner"] = winner
		loser.Data["conflict.originalScope"] = it.Scope
		loser.Data["conflict.originalOptionality"] = it.Optional

		switch level {
		case VerbosityNone:
			loser.Children = nil
		case VerbosityStandard:
			if !sameCoordinate(loser, winner) {
				loser.Children = nil
			}
		case VerbosityFull:
		}
	}
}
