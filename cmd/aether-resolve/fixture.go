package main

import (
	"os"

	"github.com/pelletier/go-toml"

	aether "github.com/go-aether/resolver"
)

// fixtureGraph is the offline stand-in for what a real repository would
// serve over the network (spec §1 non-goals exclude transport entirely):
// a flat TOML description of every artifact this demo knows about and the
// dependencies each declares, loaded once into a StaticDescriptorReader
// and a SemverRangeResolver.
type fixtureGraph struct {
	Root      fixtureArtifact   `toml:"root"`
	Artifacts []fixtureArtifact `toml:"artifact"`
}

type fixtureArtifact struct {
	GroupID      string               `toml:"groupId"`
	ArtifactID   string                `toml:"artifactId"`
	Version      string               `toml:"version"`
	Versions     []string             `toml:"versions"`
	Dependencies []fixtureDependency `toml:"dependency"`
}

type fixtureDependency struct {
	GroupID    string `toml:"groupId"`
	ArtifactID string `toml:"artifactId"`
	Version    string `toml:"version"`
	Scope      string `toml:"scope"`
	Optional   bool   `toml:"optional"`
}

func loadFixture(path string) (fixtureGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureGraph{}, err
	}
	var g fixtureGraph
	if err := toml.Unmarshal(data, &g); err != nil {
		return fixtureGraph{}, err
	}
	return g, nil
}

// buildCollaborators turns a fixtureGraph into the pair of reference
// collaborators the collector needs, plus the resolved root dependency.
func buildCollaborators(g fixtureGraph) (*aether.StaticDescriptorReader, *aether.SemverRangeResolver, aether.Dependency) {
	reader := aether.NewStaticDescriptorReader()
	resolver := aether.NewSemverRangeResolver()

	for _, fa := range g.Artifacts {
		base := aether.Artifact{GroupID: fa.GroupID, ArtifactID: fa.ArtifactID}
		resolver.PutVersions(base, fa.Versions)

		var deps []aether.Dependency
		for _, fd := range fa.Dependencies {
			scope := fd.Scope
			if scope == "" {
				scope = "compile"
			}
			deps = append(deps, aether.Dependency{
				Artifact: aether.Artifact{
					GroupID:     fd.GroupID,
					ArtifactID:  fd.ArtifactID,
					BaseVersion: fd.Version,
				},
				Scope:    scope,
				Optional: fd.Optional,
			})
		}

		for _, v := range fa.Versions {
			reader.Put(base.WithVersion(v), aether.ArtifactDescriptor{Dependencies: deps})
		}
	}

	rootArtifact := aether.Artifact{
		GroupID:     g.Root.GroupID,
		ArtifactID:  g.Root.ArtifactID,
		BaseVersion: g.Root.Version,
	}
	root := aether.Dependency{Artifact: rootArtifact, Scope: "compile"}
	return reader, resolver, root
}
