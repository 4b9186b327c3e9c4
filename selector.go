package aether

import "context"

// ArtifactDescriptorReader is the external collaborator that knows how to
// fetch a POM/descriptor for a concrete artifact: its direct dependencies,
// its managed-dependency section, its relocation (if any), and the
// repositories it advertises. The core never parses a descriptor file
// itself (spec §1 non-goals).
type ArtifactDescriptorReader interface {
	ReadArtifactDescriptor(ctx context.Context, a Artifact) (ArtifactDescriptor, error)
}

// ArtifactDescriptor is everything the collector needs out of a fetched
// descriptor to keep expanding the graph.
type ArtifactDescriptor struct {
	// Relocation is set when the descriptor declares this artifact has
	// moved to a different coordinate (spec §4.D.2.e); the collector
	// substitutes it in place and records the hop in the node's
	// Relocations.
	Relocation *Artifact

	Dependencies       []Dependency
	ManagedDependencies []ManagedDependency
	Repositories       []RemoteRepository

	// relocations is populated by resolveDescriptorChain as it follows a
	// relocation chain to reach this descriptor; ArtifactDescriptorReader
	// implementations never set it themselves.
	relocations []Artifact
}

// VersionRangeResolver is the external collaborator that turns a version
// range into the set of concrete versions a repository actually has
// available (spec §4.F "VersionRangeResolver").
type VersionRangeResolver interface {
	ResolveVersionRange(ctx context.Context, a Artifact, constraint VersionConstraint, repos []RemoteRepository) ([]string, error)
}

// VersionFilter is applied to the candidates a VersionRangeResolver
// returns before a version is selected, e.g. to drop snapshots or
// versions blacklisted by policy (spec §4.D.2.d "apply VersionFilter").
type VersionFilter interface {
	Filter(a Artifact, candidates []string) []string
}

// VersionFilterFunc adapts a plain function to a VersionFilter.
type VersionFilterFunc func(a Artifact, candidates []string) []string

// Filter implements VersionFilter.
func (f VersionFilterFunc) Filter(a Artifact, candidates []string) []string { return f(a, candidates) }

// DependencySelector decides, per node, whether a given child dependency
// should be included in the graph at all (spec §4.D "DependencySelector").
// Implementations are expected to be stateful across a descent: Deeper is
// called to produce the selector instance used for a node's own children,
// mirroring Maven/Aether's own recursive selector-derivation contract.
type DependencySelector interface {
	SelectDependency(d Dependency) bool
	Deeper(d Dependency) DependencySelector
}

// DependencyManager applies management overrides (from a node's ancestry)
// to a freshly encountered dependency, returning the managed dependency,
// a PreManaged snapshot of what was overridden, and the ManagedField bits
// that were touched (spec §4.D "DependencyManager").
type DependencyManager interface {
	ManageDependency(d Dependency) (managed Dependency, pre PreManaged, bits ManagedField)
	Deeper(d Dependency, md ManagedDependency) DependencyManager
}

// DependencyTraverser decides whether the collector should descend into a
// dependency's own transitive dependencies at all, independent of
// DependencySelector's decision to include the node in the graph (spec
// §4.D "DependencyTraverser": a node can be present but not expanded,
// e.g. for fat artifacts).
type DependencyTraverser interface {
	TraverseChildren(d Dependency) bool
	Deeper(d Dependency) DependencyTraverser
}

// StaticDescriptorReader is a reference ArtifactDescriptorReader backed by
// an in-memory map, used by tests and by cmd/aether-resolve's offline demo
// mode. Grounded on golang-dep's SourceMgr pattern of keeping an
// in-process cache keyed by project root in front of a slow collaborator,
// except here the map IS the data, not a cache in front of one.
type StaticDescriptorReader struct {
	descriptors map[GAFingerprint]map[string]ArtifactDescriptor
}

// NewStaticDescriptorReader builds an empty StaticDescriptorReader.
func NewStaticDescriptorReader() *StaticDescriptorReader {
	return &StaticDescriptorReader{descriptors: make(map[GAFingerprint]map[string]ArtifactDescriptor)}
}

// Put registers the descriptor for the given artifact's exact GA and
// version, for later retrieval by ReadArtifactDescriptor.
func (s *StaticDescriptorReader) Put(a Artifact, desc ArtifactDescriptor) {
	fp := a.Fingerprint()
	byVersion, ok := s.descriptors[fp]
	if !ok {
		byVersion = make(map[string]ArtifactDescriptor)
		s.descriptors[fp] = byVersion
	}
	byVersion[a.Version] = desc
}

// ReadArtifactDescriptor implements ArtifactDescriptorReader.
func (s *StaticDescriptorReader) ReadArtifactDescriptor(_ context.Context, a Artifact) (ArtifactDescriptor, error) {
	byVersion, ok := s.descriptors[a.Fingerprint()]
	if !ok {
		return ArtifactDescriptor{}, &MissingDescriptorError{Artifact: a}
	}
	desc, ok := byVersion[a.Version]
	if !ok {
		return ArtifactDescriptor{}, &MissingDescriptorError{Artifact: a}
	}
	return desc, nil
}

// SemverRangeResolver is a reference VersionRangeResolver backed by an
// in-memory version catalog, pairing with StaticDescriptorReader for
// offline tests and the CLI demo. Filtering down to the constraint itself
// is delegated to VersionConstraint.Filter (version.go); this type's only
// job is to stand in for "ask the repositories what versions exist".
type SemverRangeResolver struct {
	versions map[GAFingerprint][]string
}

// NewSemverRangeResolver builds an empty SemverRangeResolver.
func NewSemverRangeResolver() *SemverRangeResolver {
	return &SemverRangeResolver{versions: make(map[GAFingerprint][]string)}
}

// PutVersions registers the full set of versions available for a's GA
// (ignoring a's own Version/Extension/Classifier).
func (s *SemverRangeResolver) PutVersions(a Artifact, versions []string) {
	s.versions[a.Fingerprint()] = versions
}

// ResolveVersionRange implements VersionRangeResolver.
func (s *SemverRangeResolver) ResolveVersionRange(_ context.Context, a Artifact, constraint VersionConstraint, _ []RemoteRepository) ([]string, error) {
	candidates, ok := s.versions[a.Fingerprint()]
	if !ok || len(candidates) == 0 {
		return nil, &VersionRangeResolutionError{Artifact: a, Constraint: constraint}
	}
	return candidates, nil
}
