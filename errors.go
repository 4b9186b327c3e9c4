package aether

import "fmt"

// MissingDescriptorError is returned when an ArtifactDescriptorReader has
// no descriptor for the requested artifact at all.
type MissingDescriptorError struct {
	Artifact Artifact
}

func (e *MissingDescriptorError) Error() string {
	return fmt.Sprintf("aether: no descriptor for %s", e.Artifact)
}

// VersionRangeResolutionError is returned when a VersionRangeResolver
// cannot produce any candidate satisfying constraint (spec §4.D.2.d, the
// "version-range-unsolvable" end-to-end scenario).
type VersionRangeResolutionError struct {
	Artifact   Artifact
	Constraint VersionConstraint
}

func (e *VersionRangeResolutionError) Error() string {
	return fmt.Sprintf("aether: could not resolve version range %s for %s:%s",
		e.Constraint, e.Artifact.GA(), e.Constraint)
}

// CycleError is recorded (not necessarily returned, depending on
// CollectRequest policy) when the collector detects a dependency cycle
// it cannot expand further (spec §4.D.2.e "Detect cycles").
type CycleError struct {
	Artifact Artifact
	Ancestor Artifact
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("aether: cycle detected: %s already an ancestor of %s", e.Ancestor, e.Artifact)
}

// CollectionError aggregates every per-node failure the collector
// accumulated during a single collection run. It is the default
// outcome of a walk that accumulated any exceptions; setting
// CollectRequest.IgnoreErrors suppresses it and leaves the same failures
// attached to CollectResult.Exceptions with a nil error instead (spec
// §4.D "Error accumulation policy").
type CollectionError struct {
	Result *CollectResult
	Errs   []error
}

func (e *CollectionError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("aether: collection failed: %v", e.Errs[0])
	}
	return fmt.Sprintf("aether: collection failed with %d errors (first: %v)", len(e.Errs), e.Errs[0])
}

// Unwrap exposes the first accumulated error to errors.Is/errors.As chains.
func (e *CollectionError) Unwrap() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[0]
}

// UnsolvableConflictError is returned by conflict resolution (component
// E3) when a conflict group's constraints intersect to the empty set and
// no HIGHER_VERSION/NEAREST fallback applies (spec §4.E).
type UnsolvableConflictError struct {
	GA   string
	Msgs []string
}

func (e *UnsolvableConflictError) Error() string {
	return fmt.Sprintf("aether: unsolvable conflict for %s: %v", e.GA, e.Msgs)
}
