package conflict

import (
	aether "github.com/go-aether/resolver"
)

// MarkerTransformer adapts Mark into an aether.DependencyGraphTransformer
// (spec §4.D.5, §4.E "E1 - ConflictMarker"), publishing the per-node
// conflict-id assignment under aether.ContextConflictIDs.
type MarkerTransformer struct{}

func (MarkerTransformer) TransformGraph(root *aether.DependencyNode, ctx *aether.TransformContext) error {
	ids := Mark(root)
	ctx.Set(aether.ContextConflictIDs, ids)
	return nil
}

// SorterTransformer adapts Sort (spec §4.E "E2 - ConflictIdSorter"),
// publishing the topological conflict-id order and the set of cyclic ids.
// It assumes a MarkerTransformer has already run earlier in the chain.
type SorterTransformer struct{}

func (SorterTransformer) TransformGraph(root *aether.DependencyNode, ctx *aether.TransformContext) error {
	sorted := Sort(root)
	ctx.Set(aether.ContextSortedConflictIDs, sorted.Order)
	ctx.Set(aether.ContextCyclicConflictIDs, sorted.Cyclic)
	return nil
}

// resultContextKey is where ResolverTransformer stores the full *Result,
// retrievable through ResultFromContext by a caller that needs more than
// the headline stats published under aether.ContextStats.
const resultContextKey = "conflict.result"

// ResolverTransformer adapts Resolve (spec §4.E "E3 - ConflictResolver")
// into the same chain, publishing a small stats summary under
// aether.ContextStats plus the full *Result for callers that need it.
type ResolverTransformer struct {
	Options ResolveOptions
}

func (t ResolverTransformer) TransformGraph(root *aether.DependencyNode, ctx *aether.TransformContext) error {
	result, err := Resolve(root, t.Options)
	if err != nil {
		return err
	}
	ctx.Set(resultContextKey, result)
	ctx.Set(aether.ContextStats, map[string]int{
		"winners": len(result.Winners),
		"cyclic":  len(result.Cyclic),
	})
	return nil
}

// ResultFromContext retrieves the *Result a ResolverTransformer stored in
// ctx, for a caller that ran the resolver as part of a Session's
// transformer chain instead of calling Resolve directly.
func ResultFromContext(ctx *aether.TransformContext) (*Result, bool) {
	v, ok := ctx.Get(resultContextKey)
	if !ok {
		return nil, false
	}
	result, ok := v.(*Result)
	return result, ok
}
