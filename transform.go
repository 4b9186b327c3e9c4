package aether

// Transformation-context keys (spec §6 "Transformation-context keys"):
// opaque strings forming the contract between the conflict marker, the
// sorter, and the resolver when they run as Session.Transformers.
const (
	ContextConflictIDs       = "conflictIds"
	ContextSortedConflictIDs = "sortedConflictIds"
	ContextCyclicConflictIDs = "cyclicConflictIds"
	ContextStats             = "stats"
)

// TransformContext is the map a DependencyGraphTransformer chain is
// invoked with (spec §4.D.5). Keys are opaque strings by design, so a
// caller-supplied transformer can publish its own values alongside the
// four spec-named ones without a type the core package needs to know
// about ahead of time.
type TransformContext struct {
	values map[string]interface{}
}

// NewTransformContext returns an empty TransformContext.
func NewTransformContext() *TransformContext {
	return &TransformContext{values: map[string]interface{}{}}
}

// Get returns the value stored under key, if any.
func (c *TransformContext) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (c *TransformContext) Set(key string, value interface{}) {
	c.values[key] = value
}

// DependencyGraphTransformer mutates root in place and may publish results
// into ctx for later stages in the same chain to consume (spec §4.D.5,
// §4.E: ConflictMarker/ConflictIdSorter/ConflictResolver are themselves
// graph transformers run in this chain).
type DependencyGraphTransformer interface {
	TransformGraph(root *DependencyNode, ctx *TransformContext) error
}
