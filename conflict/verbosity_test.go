package conflict

import "testing"

func TestParseVerbosityCanonicalNames(t *testing.T) {
	cases := map[string]Verbosity{
		"NONE":     VerbosityNone,
		"standard": VerbosityStandard,
		" Full ":   VerbosityFull,
	}
	for in, want := range cases {
		got, ok := ParseVerbosity(in)
		if !ok {
			t.Errorf("ParseVerbosity(%q): expected ok", in)
		}
		if got != want {
			t.Errorf("ParseVerbosity(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestParseVerbosityLegacyBooleans(t *testing.T) {
	if got, ok := ParseVerbosity("true"); !ok || got != VerbosityStandard {
		t.Errorf("expected \"true\" to map to STANDARD, got %v ok=%v", got, ok)
	}
	if got, ok := ParseVerbosity("false"); !ok || got != VerbosityNone {
		t.Errorf("expected \"false\" to map to NONE, got %v ok=%v", got, ok)
	}
}

func TestParseVerbosityUnknown(t *testing.T) {
	if _, ok := ParseVerbosity("bogus"); ok {
		t.Error("expected an unrecognized verbosity string to report !ok")
	}
}

func TestVerbosityString(t *testing.T) {
	if VerbosityNone.String() != "NONE" || VerbosityStandard.String() != "STANDARD" || VerbosityFull.String() != "FULL" {
		t.Error("expected String() to render the canonical names")
	}
}
