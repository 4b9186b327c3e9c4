package aether

import "testing"

func TestParseVersionConstraintSingle(t *testing.T) {
	vc, err := ParseVersionConstraint("1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if vc.IsRange() {
		t.Error("expected a single version constraint, not a range")
	}
	if !vc.Matches("1.2.3") {
		t.Error("expected exact match")
	}
	if vc.Matches("1.2.4") {
		t.Error("expected no match for a different version")
	}
}

func TestParseVersionConstraintRange(t *testing.T) {
	cases := []struct {
		expr    string
		matches []string
		rejects []string
	}{
		{"[1.0,2.0]", []string{"1.0.0", "1.5.0", "2.0.0"}, []string{"0.9.0", "2.0.1"}},
		{"[1.0,2.0)", []string{"1.0.0", "1.9.9"}, []string{"2.0.0"}},
		{"(1.0,2.0)", []string{"1.0.1"}, []string{"1.0.0", "2.0.0"}},
		{"[1.0,)", []string{"1.0.0", "99.0.0"}, []string{"0.9.0"}},
		{"(,2.0]", []string{"0.1.0", "2.0.0"}, []string{"2.0.1"}},
	}
	for _, c := range cases {
		vc, err := ParseVersionConstraint(c.expr)
		if err != nil {
			t.Fatalf("%s: %v", c.expr, err)
		}
		if !vc.IsRange() {
			t.Errorf("%s: expected a range constraint", c.expr)
		}
		for _, v := range c.matches {
			if !vc.Matches(v) {
				t.Errorf("%s: expected %s to match", c.expr, v)
			}
		}
		for _, v := range c.rejects {
			if vc.Matches(v) {
				t.Errorf("%s: expected %s to be rejected", c.expr, v)
			}
		}
	}
}

func TestParseVersionConstraintPinnedBracket(t *testing.T) {
	vc, err := ParseVersionConstraint("[1.5]")
	if err != nil {
		t.Fatal(err)
	}
	if !vc.Matches("1.5.0") {
		t.Error("expected [1.5] to pin exactly 1.5")
	}
	if vc.Matches("1.6.0") {
		t.Error("expected [1.5] to reject 1.6")
	}
}

func TestVersionConstraintFilterAndHighest(t *testing.T) {
	vc, err := ParseVersionConstraint("[1.0,2.0)")
	if err != nil {
		t.Fatal(err)
	}
	candidates := []string{"0.9.0", "1.0.0", "1.5.0", "1.9.9", "2.0.0"}
	filtered := vc.Filter(candidates)
	want := []string{"1.0.0", "1.5.0", "1.9.9"}
	if len(filtered) != len(want) {
		t.Fatalf("got %v, want %v", filtered, want)
	}
	for i := range want {
		if filtered[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, filtered[i], want[i])
		}
	}

	highest, ok := vc.Highest(candidates)
	if !ok || highest != "1.9.9" {
		t.Errorf("expected highest 1.9.9, got %s (ok=%v)", highest, ok)
	}
}

func TestVersionConstraintHighestNoMatch(t *testing.T) {
	vc, err := ParseVersionConstraint("[5.0,6.0)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := vc.Highest([]string{"1.0.0", "2.0.0"}); ok {
		t.Error("expected no candidate to satisfy the range")
	}
}

func TestCompareVersions(t *testing.T) {
	if CompareVersions("1.2.0", "1.10.0") >= 0 {
		t.Error("expected 1.2.0 < 1.10.0 under semver ordering")
	}
	if CompareVersions("2.0.0", "1.9.9") <= 0 {
		t.Error("expected 2.0.0 > 1.9.9")
	}
	if CompareVersions("1.0.0", "1.0.0") != 0 {
		t.Error("expected equal versions to compare equal")
	}
}

func TestParseVersionConstraintInvalid(t *testing.T) {
	if _, err := ParseVersionConstraint(""); err == nil {
		t.Error("expected an error for an empty constraint")
	}
	if _, err := ParseVersionConstraint("not-a-range-or-version"); err == nil {
		t.Error("expected an error for an unparsable constraint")
	}
}
