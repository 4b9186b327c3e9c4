package aether

import (
	"context"
	"fmt"
)

const (
	defaultMaxExceptions = 50
	defaultMaxCycles     = 10
)

// IntPtr returns a pointer to n, for populating CollectRequest.MaxExceptions
// or MaxCycles with an explicit value (including zero) inline.
func IntPtr(n int) *int { return &n }

// CollectRequest is the input to PrepareCollect: either a root
// Dependency or a bare root Artifact, plus the direct dependencies,
// managed dependencies and repositories to seed the graph with (spec
// §4.D "Input").
type CollectRequest struct {
	RootDependency *Dependency
	RootArtifact   *Artifact

	Dependencies        []Dependency
	ManagedDependencies []ManagedDependency
	Repositories        []RemoteRepository

	RequestContext string

	// MaxExceptions and MaxCycles cap accumulation during the walk. A nil
	// pointer means "use the configured default" (50/10); a non-nil
	// pointer to 0 honors an explicit zero cap verbatim (no per-node
	// exception/cycle is ever recorded, but the walk still proceeds);
	// negative is unbounded (spec §6, §8 boundary behavior). Use
	// IntPtr(n) to build one inline.
	MaxExceptions *int
	MaxCycles     *int

	// IgnoreErrors opts out of the collector's default terminal-failure
	// behavior: with it set, per-node exceptions accumulated during the
	// walk are left attached to CollectResult.Exceptions/ErrorPath and Run
	// returns a nil error instead of a *CollectionError (spec §4.D.4:
	// "after the full walk, if errorPath is set or any exceptions were
	// collected, the collector fails with DependencyCollection(errorPath?)"
	// — failure is the default recovery behavior, not opt-in).
	IgnoreErrors bool

	// IgnoreRepositoryMerging, when set, skips aggregating a descriptor's
	// advertised repositories into a child node's repository list (spec
	// §4.D.2.e "unless session says ignore").
	IgnoreRepositoryMerging bool
}

// CollectResult is the raw output of Collector.Run: a root node
// (always non-nil, even on failure), and the exceptions/cycles
// accumulated along the way (spec §4.D "Output").
type CollectResult struct {
	Root       *DependencyNode
	Exceptions []error
	Cycles     []*CycleError

	// ErrorPath is the path-from-root (by artifact string) to the first
	// node that produced an exception, set only when Exceptions is
	// non-empty (spec §4.D.4).
	ErrorPath []string

	// Nodes is every node reachable from Root except cycle stubs, in the
	// order first visited; this is the "arena" SPEC_FULL §9 describes — a flat list
	// owned by the result, with children linked by pointer rather than
	// by index, since pointers are already stable handles under Go's GC.
	Nodes []*DependencyNode

	// TransformContext is the context the Session's DependencyGraphTransformer
	// chain was run with (spec §4.D.5), nil if the session has no
	// transformers configured or the walk terminated with an error before
	// reaching the post-transform step.
	TransformContext *TransformContext
}

// Collector runs a single, validated collection. It is
// produced by PrepareCollect, which separates request/session validation
// from in-flight collection failures (SPEC_FULL §10, grounded on
// golang-dep's gps.Prepare/Solver split).
type Collector struct {
	req     CollectRequest
	session *Session
}

// PrepareCollect validates req against session and returns a *Collector
// ready to run, or an error describing what's missing. Grounded on
// golang-dep's Prepare(params, sm SourceManager), which performs the same
// kind of up-front validation before handing back a Solver.
func PrepareCollect(req CollectRequest, session *Session) (*Collector, error) {
	if session == nil {
		return nil, fmt.Errorf("aether: PrepareCollect: nil session")
	}
	if session.DescriptorReader == nil {
		return nil, fmt.Errorf("aether: PrepareCollect: session has no ArtifactDescriptorReader")
	}
	if session.RangeResolver == nil {
		return nil, fmt.Errorf("aether: PrepareCollect: session has no VersionRangeResolver")
	}
	if req.RootDependency == nil && req.RootArtifact == nil {
		return nil, fmt.Errorf("aether: PrepareCollect: request has neither a root dependency nor a root artifact")
	}
	if session.DataPool == nil {
		session.DataPool = NewDataPool()
	}
	return &Collector{req: req, session: session}, nil
}

// Hash derives a stable digest of the request's shape: root coordinate,
// declared dependencies, managed dependencies and repositories. A caller
// running the same collection repeatedly (e.g. a build tool re-invoked on
// an unchanged descriptor) can skip re-collecting when two requests hash
// equal (SPEC_FULL §10, grounded on golang-dep's Solver.HashInputs).
func (r CollectRequest) Hash() string {
	h := fnvHash{}
	if r.RootDependency != nil {
		h.writeString("rd:" + r.RootDependency.Artifact.String())
	}
	if r.RootArtifact != nil {
		h.writeString("ra:" + r.RootArtifact.String())
	}
	for _, d := range r.Dependencies {
		h.writeString("d:" + d.Artifact.String() + ":" + d.Scope)
	}
	for _, md := range r.ManagedDependencies {
		h.writeString(fmt.Sprintf("md:%s:%s:%s:%s:%s", md.GroupID, md.ArtifactID, md.Classifier, md.Extension, md.Version))
	}
	for _, repo := range r.Repositories {
		h.writeString("r:" + repo.ID + ":" + repo.URL)
	}
	return h.String()
}

// Run performs the collection: root handling, then the recursive
// descent that expands every declared dependency (spec §4.D "Algorithm").
func (c *Collector) Run(ctx context.Context) (*CollectResult, error) {
	maxExc := defaultMaxExceptions
	if c.req.MaxExceptions != nil {
		maxExc = *c.req.MaxExceptions
	}
	maxCyc := defaultMaxCycles
	if c.req.MaxCycles != nil {
		maxCyc = *c.req.MaxCycles
	}

	w := &collectWalk{
		session:  c.session,
		result:   &CollectResult{},
		maxExc:   maxExc,
		maxCyc:   maxCyc,
		subtrees: map[string]*DependencyNode{},
	}

	root, deps, _, err := w.buildRoot(ctx, c.req)
	if err != nil {
		w.result.Root = root
		return w.result, err
	}
	w.result.Root = root
	w.result.Nodes = append(w.result.Nodes, root)

	children, err := w.expandChildren(ctx, root, deps, w.session.manager(), w.session.selector(), w.session.traverser(), root.Repositories, []Artifact{rootFingerprintArtifact(c.req)})
	if err != nil {
		return w.result, err
	}
	root.Children = children

	if len(w.result.Exceptions) > 0 {
		w.result.ErrorPath = w.firstErrorPath
		if !c.req.IgnoreErrors {
			return w.result, &CollectionError{Result: w.result, Errs: w.result.Exceptions}
		}
	}

	if err := c.runTransformers(w.result); err != nil {
		return w.result, err
	}

	return w.result, nil
}

// runTransformers invokes the session's DependencyGraphTransformer chain,
// in order, over a successfully collected graph (spec §4.D.5
// "Post-transform"), sharing one TransformContext across the whole chain.
func (c *Collector) runTransformers(result *CollectResult) error {
	if len(c.session.Transformers) == 0 {
		return nil
	}
	ctx := NewTransformContext()
	for _, t := range c.session.Transformers {
		if err := t.TransformGraph(result.Root, ctx); err != nil {
			return err
		}
	}
	result.TransformContext = ctx
	return nil
}

// rootFingerprintArtifact returns the artifact used to seed cycle
// detection's ancestor stack with the root coordinate.
func rootFingerprintArtifact(req CollectRequest) Artifact {
	if req.RootDependency != nil {
		return req.RootDependency.Artifact
	}
	return *req.RootArtifact
}

// fnvHash is a tiny stable string-accumulator used by CollectRequest.Hash;
// a hand-rolled FNV-1a with no imports, since this is an internal convenience, not a
// cryptographic or domain concern any pack library addresses.
type fnvHash struct {
	parts []string
}

func (h *fnvHash) writeString(s string) { h.parts = append(h.parts, s) }

func (h *fnvHash) String() string {
	sum := uint64(1469598103934665603) // FNV-1a offset basis
	const prime = 1099511628211
	for _, p := range h.parts {
		for i := 0; i < len(p); i++ {
			sum ^= uint64(p[i])
			sum *= prime
		}
		sum ^= 0xFF
		sum *= prime
	}
	return fmt.Sprintf("%016x", sum)
}
