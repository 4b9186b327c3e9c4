package conflict

import (
	aether "github.com/go-aether/resolver"
)

// unionFind is the union-find-like merge marker.go uses to fold a node's
// relocation/alias fingerprints together into one conflict group (spec
// §4.E "E1 - ConflictMarker").
type unionFind struct {
	parent map[aether.GAFingerprint]aether.GAFingerprint
	rank   map[aether.GAFingerprint]int
	order  []aether.GAFingerprint // first-seen order, for deterministic id choice
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[aether.GAFingerprint]aether.GAFingerprint{}, rank: map[aether.GAFingerprint]int{}}
}

func (u *unionFind) find(x aether.GAFingerprint) aether.GAFingerprint {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		u.order = append(u.order, x)
		return x
	}
	if p != x {
		root := u.find(p)
		u.parent[x] = root
		return root
	}
	return x
}

func (u *unionFind) union(a, b aether.GAFingerprint) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// Mark walks root, computes each reachable node's fingerprint set,
// unions relocation/alias fingerprints into one group, and assigns every
// node with a non-nil Dependency a ConflictID (spec §4.E "E1" and §3's
// invariant "every node with a dependency receives exactly one
// conflictId"). It also writes the id directly onto each node's
// ConflictID field so later stages don't need to keep the returned map
// around.
func Mark(root *aether.DependencyNode) map[*aether.DependencyNode]string {
	uf := newUnionFind()
	var nodes []*aether.DependencyNode

	root.Walk(func(n *aether.DependencyNode) bool {
		if n.IsCycleStub() || n.Dependency == nil {
			return true
		}
		nodes = append(nodes, n)
		fps := n.Fingerprints()
		if len(fps) == 0 {
			return true
		}
		first := fps[0]
		uf.find(first)
		for _, fp := range fps[1:] {
			uf.union(first, fp)
		}
		return true
	})

	// Deterministically name each group after the first-seen fingerprint
	// in its set, so two runs over the same graph (same walk order)
	// produce the same ids.
	idOf := map[aether.GAFingerprint]string{}
	for _, fp := range uf.order {
		grp := uf.find(fp)
		if _, ok := idOf[grp]; !ok {
			idOf[grp] = conflictIDString(grp)
		}
	}

	result := make(map[*aether.DependencyNode]string, len(nodes))
	for _, n := range nodes {
		fps := n.Fingerprints()
		if len(fps) == 0 {
			continue
		}
		grp := uf.find(fps[0])
		id := idOf[grp]
		n.ConflictID = id
		result[n] = id
	}
	return result
}

func conflictIDString(fp aether.GAFingerprint) string {
	ext := fp.Extension
	if ext == "" {
		ext = "jar"
	}
	if fp.Classifier == "" {
		return fp.GroupID + ":" + fp.ArtifactID + ":" + ext
	}
	return fp.GroupID + ":" + fp.ArtifactID + ":" + ext + ":" + fp.Classifier
}
