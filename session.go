package aether

import (
	"io"

	"github.com/go-aether/resolver/internal/rlog"
)

// Session bundles the external collaborators and policy objects a single
// collection run is threaded through, mirroring the way
// golang-dep's SourceMgr is constructed once and handed to every Solve
// call rather than re-wired per request.
type Session struct {
	DescriptorReader ArtifactDescriptorReader
	RangeResolver    VersionRangeResolver
	VersionFilter    VersionFilter

	RootSelector   DependencySelector
	RootManager    DependencyManager
	RootTraverser  DependencyTraverser

	// DataPool memoizes descriptor and version-range lookups across the
	// whole collection, keyed by artifact/constraint (spec §4.D
	// "DataPool"). NewSession allocates one, and PrepareCollect allocates
	// one if it is still nil.
	DataPool *DataPool

	// TraceLogger is an opt-in trace sink set by WithTrace. Modeled on
	// golang-dep's own opt-in solver tracing (cmd/dep's -v flag wired to a
	// io.Writer logger). Neither the collector nor the conflict resolver
	// writes any lines to it.
	TraceLogger *rlog.Logger

	// Transformers runs, in order, once the walk has produced a complete
	// graph with no terminal failure (spec §4.D.5 "Post-transform"). Each
	// transformer receives the same TransformContext, so a later stage
	// (e.g. the conflict resolver) can read values an earlier stage (e.g.
	// the conflict marker) published into it.
	Transformers []DependencyGraphTransformer
}

// NewSession builds a Session with sane defaults: a fresh DataPool, no
// selectors/managers/traversers (meaning "include everything, manage
// nothing, traverse everything" once nil-checked by the collector), and
// tracing disabled.
func NewSession(reader ArtifactDescriptorReader, resolver VersionRangeResolver) *Session {
	return &Session{
		DescriptorReader: reader,
		RangeResolver:    resolver,
		DataPool:         NewDataPool(),
	}
}

// WithTrace attaches a trace logger writing to w and returns s for
// chaining, matching the builder style artifact.go/dependency.go's
// sibling config types use.
func (s *Session) WithTrace(w io.Writer) *Session {
	s.TraceLogger = rlog.New(w, "aether: ")
	return s
}

func (s *Session) trace(format string, args ...interface{}) {
	if s.TraceLogger != nil {
		s.TraceLogger.Printf(format, args...)
	}
}

func (s *Session) selector() DependencySelector {
	if s.RootSelector != nil {
		return s.RootSelector
	}
	return acceptAllSelector{}
}

func (s *Session) manager() DependencyManager {
	if s.RootManager != nil {
		return s.RootManager
	}
	return noopManager{}
}

func (s *Session) traverser() DependencyTraverser {
	if s.RootTraverser != nil {
		return s.RootTraverser
	}
	return traverseAll{}
}

func (s *Session) filter() VersionFilter {
	if s.VersionFilter != nil {
		return s.VersionFilter
	}
	return VersionFilterFunc(func(_ Artifact, candidates []string) []string { return candidates })
}

// acceptAllSelector is the default DependencySelector: every dependency is
// included, at every depth.
type acceptAllSelector struct{}

func (acceptAllSelector) SelectDependency(Dependency) bool         { return true }
func (acceptAllSelector) Deeper(Dependency) DependencySelector     { return acceptAllSelector{} }

// noopManager is the default DependencyManager: nothing is overridden.
type noopManager struct{}

func (noopManager) ManageDependency(d Dependency) (Dependency, PreManaged, ManagedField) {
	return d, PreManaged{Version: d.Artifact.BaseVersion, Scope: d.Scope, Optional: d.Optional, Exclusions: d.Exclusions}, 0
}
func (noopManager) Deeper(Dependency, ManagedDependency) DependencyManager { return noopManager{} }

// traverseAll is the default DependencyTraverser: every dependency's own
// children are expanded, unless it is a fat artifact (checked separately
// by the collector per spec §4.D.2.c).
type traverseAll struct{}

func (traverseAll) TraverseChildren(Dependency) bool      { return true }
func (traverseAll) Deeper(Dependency) DependencyTraverser { return traverseAll{} }
