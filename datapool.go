package aether

import "sync"

// DataPool memoizes the two expensive external calls the collector makes
// — descriptor reads and version-range resolutions — across an entire
// collection run, so that a diamond dependency graph fetches
// each distinct (artifact, constraint) pair exactly once no matter how
// many times it is reached (spec §4.D "DataPool").
//
// Grounded on golang-dep's SourceMgr, which keeps srcs/srcfuts maps
// behind a mutex in front of its own slow collaborators (VCS operations)
// for the same reason.
type DataPool struct {
	mu sync.Mutex

	descriptors map[descriptorKey]descriptorEntry
	versions    map[versionKey]versionEntry
}

type descriptorKey struct {
	fp      GAFingerprint
	version string
}

type descriptorEntry struct {
	desc ArtifactDescriptor
	err  error
}

type versionKey struct {
	fp         GAFingerprint
	constraint string
}

type versionEntry struct {
	versions []string
	err      error
}

// NewDataPool allocates an empty pool.
func NewDataPool() *DataPool {
	return &DataPool{
		descriptors: make(map[descriptorKey]descriptorEntry),
		versions:    make(map[versionKey]versionEntry),
	}
}

// descriptorFor returns a cached descriptor for a, calling fetch and
// memoizing the result (including errors — a failed lookup is as stable
// a fact as a successful one within a single collection run) on miss.
func (p *DataPool) descriptorFor(a Artifact, fetch func() (ArtifactDescriptor, error)) (ArtifactDescriptor, error) {
	key := descriptorKey{fp: a.Fingerprint(), version: a.Version}

	p.mu.Lock()
	if e, ok := p.descriptors[key]; ok {
		p.mu.Unlock()
		return e.desc, e.err
	}
	p.mu.Unlock()

	desc, err := fetch()

	p.mu.Lock()
	p.descriptors[key] = descriptorEntry{desc: desc, err: err}
	p.mu.Unlock()

	return desc, err
}

// versionsFor returns cached candidate versions for (a, constraint).
func (p *DataPool) versionsFor(a Artifact, constraint VersionConstraint, fetch func() ([]string, error)) ([]string, error) {
	key := versionKey{fp: a.Fingerprint(), constraint: constraint.String()}

	p.mu.Lock()
	if e, ok := p.versions[key]; ok {
		p.mu.Unlock()
		return e.versions, e.err
	}
	p.mu.Unlock()

	versions, err := fetch()

	p.mu.Lock()
	p.versions[key] = versionEntry{versions: versions, err: err}
	p.mu.Unlock()

	return versions, err
}

// childKey derives a stable cache-discriminant string for a subtree's
// derived selector/manager/traverser state, so that two sibling nodes
// reaching the same artifact under different exclusion sets don't share
// a cache entry they shouldn't (spec §9 "DataPool cache-key derivation").
// Any collaborator implementing the unexported stateKey() method
// contributes its own fragment; collaborators that don't are treated as
// stateless and contribute nothing, which is always safe — it can only
// cause over-sharing for purely side-effect-free default collaborators
// like acceptAllSelector/noopManager/traverseAll, never for anything that
// actually varies by ancestry.
type stateKeyer interface {
	stateKey() string
}

func childKey(d Dependency, sel DependencySelector, mgr DependencyManager, trav DependencyTraverser) string {
	key := d.Artifact.String()
	for _, ex := range d.Exclusions {
		key += "|excl=" + ex.GroupID + ":" + ex.ArtifactID
	}
	if k, ok := sel.(stateKeyer); ok {
		key += "|sel=" + k.stateKey()
	}
	if k, ok := mgr.(stateKeyer); ok {
		key += "|mgr=" + k.stateKey()
	}
	if k, ok := trav.(stateKeyer); ok {
		key += "|trav=" + k.stateKey()
	}
	return key
}
