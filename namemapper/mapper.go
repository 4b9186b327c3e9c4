// Package namemapper implements component B: translating a set of
// artifact/metadata coordinates into a deterministic, globally-ordered
// set of named-lock keys (spec §4.B).
//
// Deliberately decoupled from the root aether package's Artifact type —
// A, B and C are leaf components usable without ever pulling in the
// graph collector, matching the independence the five-component overview
// (spec §2) describes.
package namemapper

import (
	"sort"

	"github.com/armon/go-radix"
)

// ArtifactCoord is the subset of an artifact coordinate the mapper needs.
type ArtifactCoord struct {
	GroupID     string
	ArtifactID  string
	Extension   string
	Classifier  string
	BaseVersion string
}

// MetadataCoord is the subset of a metadata coordinate the mapper needs.
// Type "maven-metadata.xml" is the standard type and is omitted from the
// rendered key (spec §4.B "Metadata keys").
type MetadataCoord struct {
	GroupID    string
	ArtifactID string
	Version    string
	Type       string
}

const standardMetadataType = "maven-metadata.xml"

// Strategy renders coordinates into opaque lock-key strings. Every
// Strategy is a pure function of its input coordinates (spec §4.B
// "pure function of coordinates").
type Strategy interface {
	Name() string
	// IsFileSystemFriendly reports whether this strategy's output is
	// safe to use as a path segment; composers that append to a
	// filesystem base (BasedirMapper) require true (spec §4.B).
	IsFileSystemFriendly() bool
	ArtifactKey(a ArtifactCoord) string
	MetadataKey(m MetadataCoord) string
}

// Mapper applies one Strategy to a batch of coordinates and returns the
// deterministic, sorted, deduplicated key set the sync context will
// acquire in order (spec §4.B contracts 1 and 2).
type Mapper struct {
	strategy Strategy
}

// New returns a Mapper using strategy.
func New(strategy Strategy) *Mapper {
	return &Mapper{strategy: strategy}
}

// Strategy returns the mapper's underlying strategy, e.g. so a
// BasedirMapper can check IsFileSystemFriendly before wrapping it.
func (m *Mapper) Strategy() Strategy { return m.strategy }

// Keys renders artifacts and metadata into the sorted, deduplicated key
// set contract B promises: equal inputs produce an equal set and order
// (spec §4.B "Determinism", "Global ordering"). An armon/go-radix tree is
// used to collect and lexicographically walk the keys, the same
// structure golang-dep's own solver.go reaches for when it needs a
// deterministic sorted traversal over a set of string-keyed entries
// (solver.go's intersectConstraintsWithImports).
func (m *Mapper) Keys(artifacts []ArtifactCoord, metadata []MetadataCoord) []string {
	t := radix.New()
	for _, a := range artifacts {
		t.Insert(m.strategy.ArtifactKey(a), struct{}{})
	}
	for _, md := range metadata {
		t.Insert(m.strategy.MetadataKey(md), struct{}{})
	}

	keys := make([]string, 0, t.Len())
	t.Walk(func(k string, _ interface{}) bool {
		keys = append(keys, k)
		return false
	})
	// radix.Walk already visits in lexicographic order, but Strategy
	// implementations are free to emit keys containing bytes that sort
	// differently than the tree's internal traversal for pathological
	// inputs (e.g. embedded path separators); a final stable sort makes
	// the "sole mechanism preventing deadlocks" guarantee (spec §5)
	// airtight regardless.
	sort.Strings(keys)
	return keys
}
