package aether

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxDescriptorWorkers bounds the number of concurrent descriptor fetches
// dispatched for one sibling list, matching the "bounded worker pool" of
// spec §4.D.3 and §5. Grounded on zUZWqEHF-cocoon's OCI layer puller,
// which caps per-layer fan-out the same way.
const maxDescriptorWorkers = 8

// maxRelocationHops bounds how many times the collector will follow a
// chain of descriptor relocations before giving up, guarding against a
// misconfigured or cyclic relocation chain (not specified numerically by
// spec §4.D.2.e, a defensive constant of our own choosing).
const maxRelocationHops = 16

// collectWalk carries the mutable state threaded through one
// Collector.Run: the memoization pool lives on the session, but
// the visited-ancestor stack, subtree cache and error/cycle accounting
// are local to this single walk (spec §5 "shared-resource policy: the
// DataPool is local to one collection").
type collectWalk struct {
	session *Session
	result  *CollectResult

	maxExc int
	maxCyc int

	// subtrees caches a fully-expanded child subtree keyed by childKey,
	// so a diamond-shaped graph builds each distinct (artifact, derived
	// child context) subtree exactly once (spec §4.D.2.e "Pool-cache the
	// child subtree").
	subtrees map[string]*DependencyNode

	firstErrorPath []string
}

// buildRoot implements spec §4.D.1 "Root handling": resolve the root's
// version if it's a range, read its descriptor, and merge the
// descriptor's declared dependencies/managedDependencies into the
// request (request wins on GA clash).
func (w *collectWalk) buildRoot(ctx context.Context, req CollectRequest) (*DependencyNode, []Dependency, []ManagedDependency, error) {
	var rootArtifact Artifact
	var rootDep *Dependency
	if req.RootDependency != nil {
		d := *req.RootDependency
		rootDep = &d
		rootArtifact = d.Artifact
	} else {
		rootArtifact = *req.RootArtifact
	}

	if constraint, err := ParseVersionConstraint(rootArtifact.BaseVersion); err == nil && constraint.IsRange() {
		versions, verr := w.session.DataPool.versionsFor(rootArtifact, constraint, func() ([]string, error) {
			return w.session.RangeResolver.ResolveVersionRange(ctx, rootArtifact, constraint, req.Repositories)
		})
		if verr != nil {
			return NewDependencyNode(rootDep), req.Dependencies, req.ManagedDependencies, verr
		}
		filtered := constraint.Filter(w.session.filter().Filter(rootArtifact, versions))
		picked, ok := constraint.Highest(filtered)
		if !ok {
			return NewDependencyNode(rootDep), req.Dependencies, req.ManagedDependencies, &VersionRangeResolutionError{Artifact: rootArtifact, Constraint: constraint}
		}
		rootArtifact = rootArtifact.WithVersion(picked)
		if rootDep != nil {
			rootDep.Artifact = rootArtifact
		}
	}

	desc, err := w.session.DataPool.descriptorFor(rootArtifact, func() (ArtifactDescriptor, error) {
		return w.session.DescriptorReader.ReadArtifactDescriptor(ctx, rootArtifact)
	})
	root := NewDependencyNode(rootDep)
	if rootDep == nil {
		root.Dependency = &Dependency{Artifact: rootArtifact}
	}
	if err != nil {
		return root, req.Dependencies, req.ManagedDependencies, err
	}

	merged := mergeDependencies(req.Dependencies, desc.Dependencies)
	mergedManaged := mergeManaged(req.ManagedDependencies, desc.ManagedDependencies)
	root.Repositories = mergeRepositories(req.Repositories, desc.Repositories)

	return root, merged, mergedManaged, nil
}

// mergeDependencies merges descriptor-declared dependencies into the
// request's own, with the request's entries winning on GA clash (spec
// §4.D.1 "request wins on GA-clash").
func mergeDependencies(request, fromDescriptor []Dependency) []Dependency {
	seen := make(map[GAFingerprint]bool, len(request))
	for _, d := range request {
		seen[d.Artifact.Fingerprint()] = true
	}
	out := append([]Dependency(nil), request...)
	for _, d := range fromDescriptor {
		if !seen[d.Artifact.Fingerprint()] {
			out = append(out, d)
			seen[d.Artifact.Fingerprint()] = true
		}
	}
	return out
}

func mergeManaged(request, fromDescriptor []ManagedDependency) []ManagedDependency {
	type key struct{ g, a, c, e string }
	seen := make(map[key]bool, len(request))
	for _, md := range request {
		seen[key{md.GroupID, md.ArtifactID, md.Classifier, md.Extension}] = true
	}
	out := append([]ManagedDependency(nil), request...)
	for _, md := range fromDescriptor {
		k := key{md.GroupID, md.ArtifactID, md.Classifier, md.Extension}
		if !seen[k] {
			out = append(out, md)
			seen[k] = true
		}
	}
	return out
}

func mergeRepositories(a, b []RemoteRepository) []RemoteRepository {
	seen := make(map[string]bool, len(a))
	out := append([]RemoteRepository(nil), a...)
	for _, r := range a {
		seen[r.ID] = true
	}
	for _, r := range b {
		if !seen[r.ID] {
			out = append(out, r)
			seen[r.ID] = true
		}
	}
	return out
}

// expandChildren implements spec §4.D.2 "Descent" for one parent's
// declared list of raw dependencies, returning the fully-built child
// nodes in declaration order.
func (w *collectWalk) expandChildren(
	ctx context.Context,
	parent *DependencyNode,
	rawChildren []Dependency,
	mgr DependencyManager,
	sel DependencySelector,
	trav DependencyTraverser,
	parentRepos []RemoteRepository,
	ancestorPath []Artifact,
) ([]*DependencyNode, error) {
	type pending struct {
		index    int
		managed  Dependency
		pre      PreManaged
		bits     ManagedField
		constraint VersionConstraint
	}

	var accepted []pending
	for i, raw := range rawChildren {
		managed, pre, bits := mgr.ManageDependency(raw)

		if parent.Dependency != nil && parent.Dependency.Excludes(managed.Artifact) {
			continue
		}
		if !sel.SelectDependency(managed) {
			continue
		}

		constraint, err := ParseVersionConstraint(managed.Artifact.BaseVersion)
		if err != nil {
			w.recordException(err, ancestorPath)
			continue
		}
		accepted = append(accepted, pending{index: i, managed: managed, pre: pre, bits: bits, constraint: constraint})
	}

	// fetchTask is one (artifact) descriptor lookup to run on the bounded
	// pool; several may originate from the same accepted dependency when
	// its constraint is a range with multiple surviving candidates (spec
	// §4.D.2.e "For each resulting version").
	type fetchTask struct {
		order    int
		acc      pending
		artifact Artifact
	}

	var tasks []fetchTask
	for _, acc := range accepted {
		var versionsToTry []string
		if acc.constraint.IsRange() {
			versions, err := w.session.DataPool.versionsFor(acc.managed.Artifact, acc.constraint, func() ([]string, error) {
				return w.session.RangeResolver.ResolveVersionRange(ctx, acc.managed.Artifact, acc.constraint, parentRepos)
			})
			if err != nil {
				w.recordException(err, ancestorPath)
				continue
			}
			filtered := acc.constraint.Filter(w.session.filter().Filter(acc.managed.Artifact, versions))
			if len(filtered) == 0 {
				w.recordException(&VersionRangeResolutionError{Artifact: acc.managed.Artifact, Constraint: acc.constraint}, ancestorPath)
				continue
			}
			versionsToTry = filtered
		} else {
			v := acc.managed.Artifact.Version
			if v == "" {
				v = acc.managed.Artifact.BaseVersion
			}
			versionsToTry = []string{v}
		}

		for _, v := range versionsToTry {
			tasks = append(tasks, fetchTask{order: len(tasks), acc: acc, artifact: acc.managed.Artifact.WithVersion(v)})
		}
	}

	// Resolve descriptors concurrently, bounded, results collected by
	// index so the original declaration/version order is preserved
	// regardless of completion order (spec §4.D.3, §5 "Children order").
	descs := make([]ArtifactDescriptor, len(tasks))
	finals := make([]Artifact, len(tasks))
	errs := make([]error, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxDescriptorWorkers)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			defer func() { <-sem }()

			final, desc, err := w.resolveDescriptorChain(gctx, t.artifact)
			finals[i] = final
			descs[i] = desc
			errs[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var children []*DependencyNode
	for i, t := range tasks {
		if errs[i] != nil {
			w.recordException(errs[i], ancestorPath)
			continue
		}
		desc := descs[i]
		artifact := finals[i]
		relocations := desc.relocations

		if existing, isCycle := findCycle(ancestorPath, artifact); isCycle {
			if w.maxCyc < 0 || len(w.result.Cycles) < w.maxCyc {
				ce := &CycleError{Artifact: artifact, Ancestor: existing}
				w.result.Cycles = append(w.result.Cycles, ce)
			}
			stub := NewDependencyNode(&Dependency{Artifact: artifact, Scope: t.acc.managed.Scope, Optional: t.acc.managed.Optional})
			stub.cycleOf = findAncestorNode(w.result.Nodes, existing)
			children = append(children, stub)
			continue
		}

		keyDep := t.acc.managed
		keyDep.Artifact = artifact
		key := childKey(keyDep, sel, mgr, trav)
		if cached, ok := w.subtrees[key]; ok {
			children = append(children, cached)
			continue
		}

		childDep := t.acc.managed
		childDep.Artifact = artifact
		child := NewDependencyNode(&childDep)
		child.VersionConstraint = t.acc.constraint
		child.PreManaged = t.acc.pre
		child.ManagedBits = t.acc.bits
		child.Relocations = relocations
		if desc.Repositories == nil {
			child.Repositories = parentRepos
		} else {
			child.Repositories = mergeRepositories(parentRepos, desc.Repositories)
		}

		w.result.Nodes = append(w.result.Nodes, child)

		isFat := artifact.IsFatArtifact()
		canTraverse := !isFat && trav.TraverseChildren(childDep)

		if canTraverse && len(desc.Dependencies) > 0 {
			nextPath := append(append([]Artifact(nil), ancestorPath...), artifact)
			grandchildren, err := w.expandChildren(ctx, child, desc.Dependencies,
				mgr.Deeper(childDep, bestManagedMatch(t.acc.managed, desc.ManagedDependencies)),
				sel.Deeper(childDep), trav.Deeper(childDep), child.Repositories, nextPath)
			if err != nil {
				return nil, err
			}
			child.Children = grandchildren
		}

		w.subtrees[key] = child
		children = append(children, child)
	}

	return children, nil
}

// resolveDescriptorChain fetches artifact's descriptor, following any
// relocation chain it declares, up to maxRelocationHops (spec §4.D.2.e).
// It returns the coordinate the chain ends at together with that
// coordinate's descriptor, whose relocations field (unexported) carries
// the full chain of coordinates walked through before it was reached.
func (w *collectWalk) resolveDescriptorChain(ctx context.Context, artifact Artifact) (Artifact, ArtifactDescriptor, error) {
	var relocations []Artifact
	current := artifact
	for hop := 0; hop < maxRelocationHops; hop++ {
		desc, err := w.session.DataPool.descriptorFor(current, func() (ArtifactDescriptor, error) {
			return w.session.DescriptorReader.ReadArtifactDescriptor(ctx, current)
		})
		if err != nil {
			return Artifact{}, ArtifactDescriptor{}, err
		}
		if desc.Relocation == nil {
			desc.relocations = relocations
			return current, desc, nil
		}
		relocations = append(relocations, current)
		current = *desc.Relocation
	}
	return Artifact{}, ArtifactDescriptor{}, &MissingDescriptorError{Artifact: artifact}
}

func findCycle(ancestorPath []Artifact, a Artifact) (Artifact, bool) {
	for _, anc := range ancestorPath {
		if anc.Equal(a) {
			return anc, true
		}
	}
	return Artifact{}, false
}

// findAncestorNode locates the most recently visited node in nodes (the
// walk's arena, in visit order) whose artifact equals target, used to
// point a cycle stub back at the real ancestor node it revisits. The
// arena is searched rather than the tree because a node's Children are
// only attached once its whole subtree has been expanded.
func findAncestorNode(nodes []*DependencyNode, target Artifact) *DependencyNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Dependency != nil && n.Dependency.Artifact.Equal(target) {
			return n
		}
	}
	return nil
}

// bestManagedMatch finds the ManagedDependency (if any) from a
// descriptor's own managedDependencies section that applies to dep,
// so a DependencyManager can fold it into the state it derives for
// dep's children (spec §4.D "DependencyManager.Deeper").
func bestManagedMatch(dep Dependency, managed []ManagedDependency) ManagedDependency {
	for _, md := range managed {
		if md.Matches(dep.Artifact) {
			return md
		}
	}
	return ManagedDependency{}
}

// recordException appends err to the result, capped at maxExc, and
// records the first one's path-from-root (spec §4.D.4).
func (w *collectWalk) recordException(err error, ancestorPath []Artifact) {
	if w.maxExc >= 0 && len(w.result.Exceptions) >= w.maxExc {
		return
	}
	w.result.Exceptions = append(w.result.Exceptions, err)
	if w.firstErrorPath == nil {
		path := make([]string, len(ancestorPath))
		for i, a := range ancestorPath {
			path[i] = a.String()
		}
		w.firstErrorPath = path
	}
}
