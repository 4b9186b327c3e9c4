package conflict

import (
	"testing"

	aether "github.com/go-aether/resolver"
)

func dep(g, a, v string) *aether.Dependency {
	return &aether.Dependency{Artifact: aether.Artifact{GroupID: g, ArtifactID: a, Version: v, BaseVersion: v}, Scope: "compile"}
}

func node(g, a, v string, children ...*aether.DependencyNode) *aether.DependencyNode {
	n := aether.NewDependencyNode(dep(g, a, v))
	n.Children = children
	return n
}

func TestMarkAssignsSameIDToSameGA(t *testing.T) {
	root := node("root", "root", "1.0",
		node("com.example", "lib", "1.0"),
		node("com.example", "lib", "2.0"),
	)

	Mark(root)

	if root.Children[0].ConflictID == "" {
		t.Fatal("expected a non-empty conflict id")
	}
	if root.Children[0].ConflictID != root.Children[1].ConflictID {
		t.Errorf("two occurrences of the same GA got different conflict ids: %q vs %q",
			root.Children[0].ConflictID, root.Children[1].ConflictID)
	}
}

func TestMarkUnionsRelocatedCoordinates(t *testing.T) {
	old := node("com.old", "lib", "1.0")
	old.Relocations = []aether.Artifact{{GroupID: "com.new", ArtifactID: "lib", Version: "1.0"}}
	fresh := node("com.new", "lib", "2.0")

	root := node("root", "root", "1.0", old, fresh)
	Mark(root)

	if old.ConflictID != fresh.ConflictID {
		t.Errorf("relocated artifact and its new coordinate ended up in different conflict groups: %q vs %q",
			old.ConflictID, fresh.ConflictID)
	}
}

func TestMarkSkipsCycleStubsAndRoot(t *testing.T) {
	root := aether.NewDependencyNode(nil)
	child := node("com.example", "lib", "1.0")
	stub := aether.NewCycleStub(child)
	root.Children = []*aether.DependencyNode{child, stub}

	ids := Mark(root)

	if _, ok := ids[root]; ok {
		t.Error("root with nil Dependency should not receive a conflict id")
	}
	if _, ok := ids[stub]; ok {
		t.Error("cycle stub should not receive a conflict id")
	}
	if ids[child] == "" {
		t.Error("child should receive a conflict id")
	}
}

func TestConflictIDStringFormat(t *testing.T) {
	id := conflictIDString(aether.GAFingerprint{GroupID: "com.example", ArtifactID: "lib", Extension: "jar"})
	if id != "com.example:lib:jar" {
		t.Errorf("got %q", id)
	}
	id = conflictIDString(aether.GAFingerprint{GroupID: "com.example", ArtifactID: "lib", Extension: "jar", Classifier: "sources"})
	if id != "com.example:lib:jar:sources" {
		t.Errorf("got %q", id)
	}
}
