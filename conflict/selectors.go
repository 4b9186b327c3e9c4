package conflict

import (
	aether "github.com/go-aether/resolver"
)

// ConflictItem is one occurrence of a conflict group: a Path through which
// some version/scope/optionality of the group's artifact was reached (spec
// §4.E step 1, "Collects all current ConflictItems for the group").
type ConflictItem struct {
	Path     *Path
	Node     *aether.DependencyNode
	Parent   *aether.DependencyNode
	Version  string
	Depth    int
	Scope    string
	Optional bool
}

// VersionSelector picks the winning version for a conflict group (spec
// §4.E step 2). Implementations must either choose one of the items'
// versions or return an error; returning zero value with nil error is not
// a valid outcome.
type VersionSelector interface {
	Select(items []ConflictItem) (winner ConflictItem, err error)
}

// NearestVersionSelector implements Maven's classic "nearest wins" rule:
// the item with the smallest Depth wins; ties at the same depth are broken
// by higher version (spec §4.E "VersionSelector" / GLOSSARY "nearest
// wins").
type NearestVersionSelector struct{}

func (NearestVersionSelector) Select(items []ConflictItem) (ConflictItem, error) {
	if len(items) == 0 {
		return ConflictItem{}, errNoItems
	}
	best := items[0]
	for _, it := range items[1:] {
		switch {
		case it.Depth < best.Depth:
			best = it
		case it.Depth == best.Depth && aether.CompareVersions(it.Version, best.Version) > 0:
			best = it
		}
	}
	return best, nil
}

// HigherVersionSelector always prefers the highest version present in the
// group, irrespective of depth (spec §4.E "VersionSelector": "an
// alternative strategy... prefers the higher version regardless of
// depth"). Ties (equal highest version at multiple depths) fall back to
// nearest among the tied set, so the choice of Path is still deterministic.
type HigherVersionSelector struct{}

func (HigherVersionSelector) Select(items []ConflictItem) (ConflictItem, error) {
	if len(items) == 0 {
		return ConflictItem{}, errNoItems
	}
	best := items[0]
	for _, it := range items[1:] {
		cmp := aether.CompareVersions(it.Version, best.Version)
		switch {
		case cmp > 0:
			best = it
		case cmp == 0 && it.Depth < best.Depth:
			best = it
		}
	}
	return best, nil
}

// ScopeSelector derives the conflict group's effective scope from its
// winner and the full item set (spec §4.E step 3).
type ScopeSelector interface {
	Select(winner ConflictItem, items []ConflictItem) string
}

// JavaScopeSelector implements the standard ruleset named in spec §4.E
// "Scope derivation": system is sticky, otherwise the widest of
// {compile, runtime, provided, test} wins, and a direct dependency
// (depth <= 1) always keeps its own declared scope.
type JavaScopeSelector struct{}

func (JavaScopeSelector) Select(winner ConflictItem, items []ConflictItem) string {
	if winner.Depth <= 1 {
		return winner.Scope
	}
	widest := winner.Scope
	for _, it := range items {
		widest = widerScope(widest, it.Scope)
	}
	return widest
}

var scopeRank = map[string]int{
	"system":   4,
	"compile":  3,
	"runtime":  2,
	"provided": 1,
	"test":     0,
}

// deriveScope computes a single occurrence's derived scope D from its
// parent path's derived scope P and its own declared scope C (spec §4.E
// "Scope derivation"). BuildPaths calls it while building the Path tree,
// before any conflict group is resolved, so P is the parent occurrence's
// derived scope, not its group's resolved winner scope.
func deriveScope(parentScope, declaredScope string, depth int) string {
	if depth <= 1 {
		if declaredScope == "" {
			return "compile"
		}
		return declaredScope
	}
	if parentScope == "system" {
		return "system"
	}
	if declaredScope == "" {
		return parentScope
	}
	if parentScope == "" {
		return declaredScope
	}
	return widerScope(parentScope, declaredScope)
}

func widerScope(a, b string) string {
	if a == "system" || b == "system" {
		return "system"
	}
	ra, aok := scopeRank[a]
	rb, bok := scopeRank[b]
	switch {
	case !aok && !bok:
		return a
	case !aok:
		return b
	case !bok:
		return a
	case ra >= rb:
		return a
	default:
		return b
	}
}

// OptionalitySelector derives the conflict group's effective optionality
// (spec §4.E step 4).
type OptionalitySelector interface {
	Select(winner ConflictItem, items []ConflictItem) bool
}

// JavaOptionalitySelector mirrors Maven's rule: the winning occurrence's
// own declared optionality governs, except that any direct dependency
// (depth <= 1) that says non-optional forces the group non-optional,
// since a project's own direct declaration always takes precedence over
// what a transitive occurrence says about itself.
type JavaOptionalitySelector struct{}

func (JavaOptionalitySelector) Select(winner ConflictItem, items []ConflictItem) bool {
	for _, it := range items {
		if it.Depth <= 1 && !it.Optional {
			return false
		}
	}
	return winner.Optional
}
