package conflict

import (
	"errors"
	"fmt"
)

// errNoItems guards against calling a selector on an empty conflict group,
// which would be a resolver bug (Mark never creates an empty group) rather
// than a user-facing condition.
var errNoItems = errors.New("conflict: selector invoked with no items")

// VersionConvergenceError is returned by Resolve when
// ResolveOptions.EnforceConvergence is set and a group's winner fails to
// satisfy every hard range constraint present in that group (spec §7
// "VersionConvergenceViolated").
type VersionConvergenceError struct {
	ConflictID string
	Winner     string
	Violated   []string
}

func (e *VersionConvergenceError) Error() string {
	return fmt.Sprintf("conflict: %s: winner %s does not satisfy ranges %v", e.ConflictID, e.Winner, e.Violated)
}

// IncompatibleVersionsError is returned when ResolveOptions.Compatibility
// rejects the winner picked for a group; no other candidate is tried
// (spec §7 "IncompatibleVersions").
type IncompatibleVersionsError struct {
	ConflictID string
	Reason     string
}

func (e *IncompatibleVersionsError) Error() string {
	return fmt.Sprintf("conflict: %s: incompatible versions: %s", e.ConflictID, e.Reason)
}
