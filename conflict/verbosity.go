// Package conflict implements component E: marking conflict groups,
// topologically sorting them, and resolving each group to a winner under
// a pluggable version/scope/optionality policy (spec §4.E).
package conflict

import "strings"

// Verbosity controls how much of a loser subtree the resolver leaves
// behind after a conflict group is resolved (spec §4.E "Verbosity
// levels"). Modeled as a typed int enum per SPEC_FULL §9, rather than a
// bare bool, so that FULL can be added without a breaking API change —
// the same reasoning golang-dep's own Solver uses small typed-int enums
// (e.g. ProjectExistence) instead of bools throughout gps.
type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbosityStandard
	VerbosityFull
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityNone:
		return "NONE"
	case VerbosityStandard:
		return "STANDARD"
	case VerbosityFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// ParseVerbosity accepts the canonical names plus the legacy boolean
// strings ("true" -> STANDARD, "false" -> NONE) spec §9 calls for.
func ParseVerbosity(s string) (Verbosity, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return VerbosityNone, true
	case "STANDARD":
		return VerbosityStandard, true
	case "FULL":
		return VerbosityFull, true
	case "TRUE":
		return VerbosityStandard, true
	case "FALSE":
		return VerbosityNone, true
	default:
		return VerbosityNone, false
	}
}
