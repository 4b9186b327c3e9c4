package aether

// Exclusion is a (groupId, artifactId) pair that a Dependency declares
// should never be pulled in transitively through it.
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// Matches reports whether an artifact's GA matches this exclusion. A "*"
// wildcard on either field matches anything, mirroring Maven's own
// exclusion wildcard convention.
func (e Exclusion) Matches(a Artifact) bool {
	return (e.GroupID == "*" || e.GroupID == a.GroupID) &&
		(e.ArtifactID == "*" || e.ArtifactID == a.ArtifactID)
}

// Dependency is an artifact plus the properties that govern how it
// participates in graph collection and conflict resolution: scope,
// optionality, and a set of exclusions applied to its own transitive
// dependencies.
type Dependency struct {
	Artifact   Artifact
	Scope      string
	Optional   bool
	Exclusions []Exclusion
}

// Excludes reports whether any of d's exclusions matches a.
func (d Dependency) Excludes(a Artifact) bool {
	for _, ex := range d.Exclusions {
		if ex.Matches(a) {
			return true
		}
	}
	return false
}

// ManagedField identifies one of the fields a DependencyManager can impose
// on a dependency. The set forms the managedBits bitfield recorded on each
// DependencyNode (spec §3).
type ManagedField uint8

const (
	ManagedVersion ManagedField = 1 << iota
	ManagedScope
	ManagedOptional
	ManagedExclusions
	ManagedProperties
)

// Has reports whether field is set in bits.
func (bits ManagedField) Has(field ManagedField) bool {
	return bits&field != 0
}

// ManagedDependency is an entry in a management section (spec GLOSSARY):
// it overrides version/scope/optional/exclusions/properties of matching
// transitive dependencies, keyed by the managed artifact's GA[:classifier:extension].
type ManagedDependency struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Extension  string

	Version    string
	Scope      string
	Optional   *bool
	Exclusions []Exclusion
	Properties map[string]string
}

// Matches reports whether md governs dep's artifact.
func (md ManagedDependency) Matches(a Artifact) bool {
	if md.GroupID != a.GroupID || md.ArtifactID != a.ArtifactID {
		return false
	}
	if md.Classifier != "" && md.Classifier != a.Classifier {
		return false
	}
	if md.Extension != "" && md.Extension != a.Extension {
		return false
	}
	return true
}

// PreManaged records the values a dependency had before a DependencyManager
// overrode them; the collector stores it on DependencyNode.PreManaged. The
// conflict package does not read it.
type PreManaged struct {
	Version    string
	Scope      string
	Optional   bool
	Exclusions []Exclusion
}
