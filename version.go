package aether

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver"
)

// VersionConstraint models either a single concrete version or a range
// expression (spec §3: "versionConstraint (parsed range / single version)").
//
// It wraps github.com/Masterminds/semver the same way golang-dep's own
// Constraint type does (constraints.go: NewSemverConstraint), generalized
// to also parse the subset of Maven's interval-range syntax
// ("[1.0,2.0)", "(,1.0]", "[1.5,]") that a semver.Constraints expression
// can represent.
type VersionConstraint struct {
	raw string
	c   semver.Constraints
	// single is set when raw denoted one concrete version rather than a
	// range; HIGHER_VERSION/NEAREST selection treats both uniformly, but
	// the collector needs to know when a range resolution step is
	// required at all (spec §4.D.1, §4.D.2.d).
	single  bool
	version *semver.Version
}

// ParseVersionConstraint parses body as either a bare version
// ("1.2.3") or a Maven-style range ("[1.0,2.0)"). Maven ranges are
// translated to the semver library's own comma-separated comparator-set
// syntax before being handed to semver.NewConstraint.
func ParseVersionConstraint(body string) (VersionConstraint, error) {
	if body == "" {
		return VersionConstraint{}, fmt.Errorf("aether: empty version constraint")
	}
	if v, err := semver.NewVersion(body); err == nil {
		return VersionConstraint{raw: body, single: true, version: v}, nil
	}

	expr, err := mavenRangeToSemver(body)
	if err != nil {
		return VersionConstraint{}, err
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return VersionConstraint{}, fmt.Errorf("aether: invalid version constraint %q: %w", body, err)
	}
	return VersionConstraint{raw: body, c: c}, nil
}

// IsRange reports whether the constraint denotes a range of acceptable
// versions rather than a single pinned version (spec §4.D.1: "if its
// artifact has a version range").
func (vc VersionConstraint) IsRange() bool {
	return !vc.single
}

// String returns the original, unparsed constraint text.
func (vc VersionConstraint) String() string { return vc.raw }

// Matches reports whether v satisfies the constraint.
func (vc VersionConstraint) Matches(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	if vc.single {
		return vc.version.Equal(sv)
	}
	return vc.c.Check(sv)
}

// Filter returns the subset of candidates satisfying the constraint,
// sorted ascending. This is the pure function the collector applies
// after the VersionRangeResolver collaborator has enumerated candidates
// (spec §4.D.2.d: "apply VersionFilter").
func (vc VersionConstraint) Filter(candidates []string) []string {
	type pair struct {
		raw string
		sv  *semver.Version
	}
	var parsed []pair
	for _, c := range candidates {
		sv, err := semver.NewVersion(c)
		if err != nil {
			continue
		}
		if vc.Matches(c) {
			parsed = append(parsed, pair{c, sv})
		}
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].sv.LessThan(parsed[j].sv) })
	out := make([]string, len(parsed))
	for i, p := range parsed {
		out[i] = p.raw
	}
	return out
}

// Highest returns the greatest version in candidates allowed by the
// constraint, used by root version-range handling (spec §4.D.1: "pick the
// highest version from the post-filter result").
func (vc VersionConstraint) Highest(candidates []string) (string, bool) {
	filtered := vc.Filter(candidates)
	if len(filtered) == 0 {
		return "", false
	}
	return filtered[len(filtered)-1], true
}

// CompareVersions returns -1, 0 or 1 as a is less than, equal to or
// greater than b, treating unparsable strings as lexicographically ordered (a defensive fallback;
// real coordinates are always semver-shaped in this engine's test suite
// and its reference collaborators).
func CompareVersions(a, b string) int {
	av, aerr := semver.NewVersion(a)
	bv, berr := semver.NewVersion(b)
	if aerr != nil || berr != nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return av.Compare(bv)
}

// mavenRangeToSemver translates a Maven-style interval range into the
// comparator-set syntax that github.com/Masterminds/semver's
// NewConstraint understands. Supported forms: "[a,b]", "[a,b)", "(a,b]",
// "(a,b)", "[a,)", "(,b]", "[a,]", open on either side by omitting the
// bound.
func mavenRangeToSemver(body string) (string, error) {
	if len(body) < 3 {
		return "", fmt.Errorf("aether: invalid version range %q", body)
	}
	open, close := body[0], body[len(body)-1]
	if (open != '[' && open != '(') || (close != ']' && close != ')') {
		return "", fmt.Errorf("aether: invalid version range %q", body)
	}
	inner := body[1 : len(body)-1]
	lo, hi, hasComma := cutOnce(inner, ',')
	if !hasComma {
		// A single bracketed value, e.g. "[1.5]", pins an exact version.
		return "=" + inner, nil
	}

	var parts []string
	if lo != "" {
		if open == '[' {
			parts = append(parts, ">="+lo)
		} else {
			parts = append(parts, ">"+lo)
		}
	}
	if hi != "" {
		if close == ']' {
			parts = append(parts, "<="+hi)
		} else {
			parts = append(parts, "<"+hi)
		}
	}
	if len(parts) == 0 {
		return "*", nil
	}
	expr := parts[0]
	for _, p := range parts[1:] {
		expr += ", " + p
	}
	return expr, nil
}

func cutOnce(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
