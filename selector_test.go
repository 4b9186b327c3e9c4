package aether

import (
	"context"
	"errors"
	"testing"
)

func TestStaticDescriptorReaderRoundTrip(t *testing.T) {
	r := NewStaticDescriptorReader()
	a := Artifact{GroupID: "com.example", ArtifactID: "lib", Version: "1.0.0"}
	want := ArtifactDescriptor{Dependencies: []Dependency{{Artifact: Artifact{GroupID: "com.example", ArtifactID: "dep", Version: "1.0.0"}}}}
	r.Put(a, want)

	got, err := r.ReadArtifactDescriptor(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Dependencies) != 1 {
		t.Errorf("expected the stored descriptor to round-trip, got %+v", got)
	}
}

func TestStaticDescriptorReaderMissingGA(t *testing.T) {
	r := NewStaticDescriptorReader()
	_, err := r.ReadArtifactDescriptor(context.Background(), Artifact{GroupID: "com.example", ArtifactID: "missing", Version: "1.0.0"})
	var missing *MissingDescriptorError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingDescriptorError, got %v", err)
	}
}

func TestStaticDescriptorReaderMissingVersion(t *testing.T) {
	r := NewStaticDescriptorReader()
	r.Put(Artifact{GroupID: "com.example", ArtifactID: "lib", Version: "1.0.0"}, ArtifactDescriptor{})
	_, err := r.ReadArtifactDescriptor(context.Background(), Artifact{GroupID: "com.example", ArtifactID: "lib", Version: "2.0.0"})
	var missing *MissingDescriptorError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingDescriptorError for a registered GA but unregistered version, got %v", err)
	}
}

func TestSemverRangeResolverReturnsRegisteredVersions(t *testing.T) {
	r := NewSemverRangeResolver()
	lib := Artifact{GroupID: "com.example", ArtifactID: "lib"}
	r.PutVersions(lib, []string{"1.0.0", "2.0.0"})

	vc, err := ParseVersionConstraint("[1.0,3.0)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.ResolveVersionRange(context.Background(), lib.WithVersion("[1.0,3.0)"), vc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected both registered versions returned, got %v", got)
	}
}

func TestSemverRangeResolverUnknownGA(t *testing.T) {
	r := NewSemverRangeResolver()
	vc, _ := ParseVersionConstraint("[1.0,2.0)")
	_, err := r.ResolveVersionRange(context.Background(), Artifact{GroupID: "com.example", ArtifactID: "missing"}, vc, nil)
	var rangeErr *VersionRangeResolutionError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *VersionRangeResolutionError, got %v", err)
	}
}
