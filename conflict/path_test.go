package conflict

import (
	"testing"

	aether "github.com/go-aether/resolver"
)

func TestBuildPathsAssignsDepthAndParent(t *testing.T) {
	grandchild := node("com.example", "gc", "1.0")
	child := node("com.example", "mid", "1.0", grandchild)
	root := node("root", "root", "1.0", child)
	Mark(root)

	p := BuildPaths(root)
	if p.Depth != 0 || p.Parent != nil {
		t.Errorf("expected root path at depth 0 with no parent, got depth=%d parent=%v", p.Depth, p.Parent)
	}
	if len(p.Children) != 1 {
		t.Fatalf("expected 1 child path, got %d", len(p.Children))
	}
	childPath := p.Children[0]
	if childPath.Depth != 1 || childPath.Parent != p {
		t.Errorf("expected child at depth 1 with root as parent, got depth=%d", childPath.Depth)
	}
	if len(childPath.Children) != 1 || childPath.Children[0].Depth != 2 {
		t.Errorf("expected grandchild path at depth 2")
	}
}

func TestBuildPathsRecordsCycleStubsWithoutRecursing(t *testing.T) {
	ancestor := node("com.example", "ancestor", "1.0")
	stub := aether.NewCycleStub(ancestor)
	child := node("com.example", "mid", "1.0")
	child.Children = append(child.Children, stub)
	root := node("root", "root", "1.0", child)
	Mark(root)

	p := BuildPaths(root)
	childPath := p.Children[0]
	if len(childPath.CycleStubs) != 1 {
		t.Fatalf("expected 1 recorded cycle stub, got %d", len(childPath.CycleStubs))
	}
	if len(childPath.Children) != 0 {
		t.Errorf("expected BuildPaths to not recurse into the cycle stub, got %d children", len(childPath.Children))
	}
}

func TestPathWalkVisitsEveryNode(t *testing.T) {
	a := node("com.example", "a", "1.0")
	b := node("com.example", "b", "1.0")
	root := node("root", "root", "1.0", a, b)
	Mark(root)

	p := BuildPaths(root)
	count := 0
	p.Walk(func(*Path) bool { count++; return true })
	if count != 3 {
		t.Errorf("expected 3 path nodes visited (root, a, b), got %d", count)
	}
}
