package conflict

import (
	aether "github.com/go-aether/resolver"
)

// CompatibilityStrategy vets a candidate winner version beyond plain range
// satisfaction (spec §4.E "optional compatibility check"); returning a
// non-nil error rejects the group's picked winner, and Resolve then fails
// with IncompatibleVersionsError without trying any other candidate.
type CompatibilityStrategy func(conflictID, version string) error

// ResolveOptions configures a single Resolve call (spec §4.E "E3 -
// ConflictResolver", §9 "ConflictResolver strategy").
type ResolveOptions struct {
	VersionSelector     VersionSelector
	ScopeSelector       ScopeSelector
	OptionalitySelector OptionalitySelector
	Verbosity           Verbosity

	// EnforceConvergence, when set, re-checks each picked winner against
	// every hard range constraint in its group and returns a
	// VersionConvergenceError on a violation. Winner selection already
	// fails with UnsolvableConflictError when no candidate satisfies every
	// range, so with the built-in selectors this check never fires. It does
	// not compare the concrete versions of a group's occurrences with one
	// another.
	EnforceConvergence bool
	Compatibility      CompatibilityStrategy
}

func (o ResolveOptions) versionSelector() VersionSelector {
	if o.VersionSelector != nil {
		return o.VersionSelector
	}
	return NearestVersionSelector{}
}

func (o ResolveOptions) scopeSelector() ScopeSelector {
	if o.ScopeSelector != nil {
		return o.ScopeSelector
	}
	return JavaScopeSelector{}
}

func (o ResolveOptions) optionalitySelector() OptionalitySelector {
	if o.OptionalitySelector != nil {
		return o.OptionalitySelector
	}
	return JavaOptionalitySelector{}
}

// Result is what Resolve hands back: the same root, mutated in place, plus
// bookkeeping a caller or test can inspect without re-walking the graph.
type Result struct {
	Root    *aether.DependencyNode
	Winners map[string]*aether.DependencyNode
	Cyclic  map[string]bool
}

// Resolve is the default, path-based O(N) conflict resolver (spec §4.E,
// §9's Open Question "E3 strategy" resolved in favor of the path-based
// approach as authoritative). It marks conflict groups, sorts them
// topologically, builds the Path tree (deriving every occurrence's scope
// from its parent path's derived scope, before any group is resolved),
// and resolves the groups parent-before-child.
func Resolve(root *aether.DependencyNode, opts ResolveOptions) (*Result, error) {
	Mark(root)
	sorted := Sort(root)
	rootPath := BuildPaths(root)

	groups := map[string][]ConflictItem{}
	pathsByID := map[string][]*Path{}
	rootPath.Walk(func(p *Path) bool {
		if p.Node.Dependency == nil || p.ConflictID == "" {
			return true
		}
		groups[p.ConflictID] = append(groups[p.ConflictID], ConflictItem{
			Path:     p,
			Node:     p.Node,
			Parent:   parentNode(p),
			Version:  p.Node.Dependency.Artifact.Version,
			Depth:    p.Depth,
			Scope:    p.Scope,
			Optional: p.Optional,
		})
		pathsByID[p.ConflictID] = append(pathsByID[p.ConflictID], p)
		return true
	})

	winners := map[string]*aether.DependencyNode{}

	for _, id := range sorted.Order {
		items := groups[id]
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

		adoptCycleStubs(winner.Node, items)
		applyVerbosity(winner.Node, items, opts.Verbosity)
	}

	return &Result{Root: root, Winners: winners, Cyclic: sorted.Cyclic}, nil
}

// pickWinner runs the configured VersionSelector, backtracking to the next
// preference whenever the current choice fails one of the group's own hard
// range constraints, until one candidate satisfies every range present or
// the group is exhausted (spec §4.E "handle version-range hard
// constraints... with backtracking").
func pickWinner(items []ConflictItem, opts ResolveOptions) (ConflictItem, error) {
	sel := opts.versionSelector()
	candidates := append([]ConflictItem(nil), items...)

	for len(candidates) > 0 {
		w, err := sel.Select(candidates)
		if err != nil {
			return ConflictItem{}, err
		}
		if len(rangeViolations(w.Version, items)) == 0 {
			return w, nil
		}
		candidates = removeItem(candidates, w)
	}

	return ConflictItem{}, &aether.UnsolvableConflictError{
		GA:   items[0].Node.ConflictID,
		Msgs: []string{"no candidate version satisfies every range constraint in the group"},
	}
}

func rangeViolations(version string, items []ConflictItem) []string {
	var violated []string
	for _, it := range items {
		vc := it.Node.VersionConstraint
		if vc.IsRange() && vc.String() != "" && !vc.Matches(version) {
			violated = append(violated, vc.String())
		}
	}
	return violated
}

func removeItem(items []ConflictItem, victim ConflictItem) []ConflictItem {
	out := make([]ConflictItem, 0, len(items))
	for _, it := range items {
		if it.Node == victim.Node && it.Path == victim.Path {
			continue
		}
		out = append(out, it)
	}
	return out
}

// adoptCycleStubs reattaches every loser path's recorded cycle stubs onto
// the winner node, so a cycle detected anywhere in the group is still
// visible from the surviving node (spec §4.E "Cycle handling").
func adoptCycleStubs(winner *aether.DependencyNode, items []ConflictItem) {
	seen := map[*aether.DependencyNode]bool{}
	for _, c := range winner.Children {
		if c.IsCycleStub() {
			seen[c.CycleTarget()] = true
		}
	}
	for _, it := range items {
		if it.Node == winner {
			continue
		}
		for _, stub := range it.Path.CycleStubs {
			if !seen[stub.CycleTarget()] {
				seen[stub.CycleTarget()] = true
				winner.Children = append(winner.Children, stub)
			}
		}
	}
}

// applyVerbosity records loser annotations and trims each losing
// occurrence's subtree according to level (spec §4.E "Verbosity levels"):
// NONE drops a loser's subtree entirely, STANDARD first removes redundant
// range-siblings (losers that share a version with another loser, distinct
// from the winner's) and then reduces every remaining loser to a childless
// stub unless it shares the winner's exact coordinate, FULL leaves every
// loser subtree intact.
func applyVerbosity(winner *aether.DependencyNode, items []ConflictItem, level Verbosity) {
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
			// leave intact
		}
	}
}

// removeRedundantRangeSiblings implements the first half of STANDARD
// verbosity (spec §4.E step 5): when more than one losing occurrence in a
// group shares the same version — distinct from the winner's — they are
// duplicates of each other rather than of the winner, and are detached from
// the graph entirely instead of being kept as empty stubs.
func removeRedundantRangeSiblings(winner *aether.DependencyNode, items []ConflictItem) map[*aether.DependencyNode]bool {
	byVersion := map[string][]ConflictItem{}
	for _, it := range items {
		if it.Node == winner {
			continue
		}
		byVersion[it.Version] = append(byVersion[it.Version], it)
	}

	removed := map[*aether.DependencyNode]bool{}
	for _, group := range byVersion {
		if len(group) < 2 {
			continue
		}
		for _, it := range group {
			if detachChild(it.Parent, it.Node) {
				removed[it.Node] = true
			}
		}
	}
	return removed
}

// detachChild removes child from parent.Children in place, reporting
// whether it was found there.
func detachChild(parent, child *aether.DependencyNode) bool {
	if parent == nil {
		return false
	}
	out := parent.Children[:0]
	found := false
	for _, c := range parent.Children {
		if c == child {
			found = true
			continue
		}
		out = append(out, c)
	}
	parent.Children = out
	return found
}

// sameCoordinate reports whether a and b share the exact same artifact
// coordinate, including version — the one case §8 carves out where a
// STANDARD-verbosity loser keeps its children instead of being reduced to
// a stub, since it is effectively identical to the winner.
func sameCoordinate(a, b *aether.DependencyNode) bool {
	if a.Dependency == nil || b.Dependency == nil {
		return false
	}
	aa, bb := a.Dependency.Artifact, b.Dependency.Artifact
	return aa.Fingerprint() == bb.Fingerprint() && aa.Version == bb.Version
}

func parentNode(p *Path) *aether.DependencyNode {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.Node
}
