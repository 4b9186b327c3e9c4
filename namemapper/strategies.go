package namemapper

import "fmt"

// Lookup returns the built-in Strategy registered under name, or an
// error if name is not recognized (spec §6
// "aether.syncContext.named.nameMapper").
func Lookup(name string) (Strategy, error) {
	switch name {
	case "static":
		return staticStrategy{}, nil
	case "gav":
		return gavStrategy{}, nil
	case "gaecv":
		return gaecvStrategy{}, nil
	case "file-gav":
		return fileStrategy{inner: gavStrategy{}}, nil
	case "file-gaecv":
		return fileStrategy{inner: gaecvStrategy{}}, nil
	case "file-hgav":
		return hashedStrategy{inner: fileStrategy{inner: gavStrategy{}}}, nil
	case "file-hgaecv":
		return hashedStrategy{inner: fileStrategy{inner: gaecvStrategy{}}}, nil
	case "discriminating":
		return nil, fmt.Errorf("namemapper: %q requires NewDiscriminating(hostname, localRepoPath, inner)", name)
	default:
		return nil, fmt.Errorf("namemapper: unknown name mapper strategy %q", name)
	}
}

// staticStrategy degenerates every coordinate to one constant key (spec
// §4.B "static").
type staticStrategy struct{}

func (staticStrategy) Name() string                 { return "static" }
func (staticStrategy) IsFileSystemFriendly() bool    { return false }
func (staticStrategy) ArtifactKey(ArtifactCoord) string { return "static-lock" }
func (staticStrategy) MetadataKey(MetadataCoord) string { return "static-lock" }

// gavStrategy renders "artifact:<g>:<a>:<baseVersion>" (spec §4.B "gav").
type gavStrategy struct{}

func (gavStrategy) Name() string              { return "gav" }
func (gavStrategy) IsFileSystemFriendly() bool { return false }

func (gavStrategy) ArtifactKey(a ArtifactCoord) string {
	return fmt.Sprintf("artifact:%s:%s:%s", a.GroupID, a.ArtifactID, a.BaseVersion)
}

func (gavStrategy) MetadataKey(m MetadataCoord) string {
	return metadataKey(m)
}

// gaecvStrategy renders "artifact:<g>:<a>:<ext>[:<cls>]:<baseVersion>",
// distinguishing classifier/extension (spec §4.B "gaecv").
type gaecvStrategy struct{}

func (gaecvStrategy) Name() string              { return "gaecv" }
func (gaecvStrategy) IsFileSystemFriendly() bool { return false }

func (gaecvStrategy) ArtifactKey(a ArtifactCoord) string {
	ext := a.Extension
	if ext == "" {
		ext = "jar"
	}
	if a.Classifier == "" {
		return fmt.Sprintf("artifact:%s:%s:%s:%s", a.GroupID, a.ArtifactID, ext, a.BaseVersion)
	}
	return fmt.Sprintf("artifact:%s:%s:%s:%s:%s", a.GroupID, a.ArtifactID, ext, a.Classifier, a.BaseVersion)
}

func (gaecvStrategy) MetadataKey(m MetadataCoord) string {
	return metadataKey(m)
}

// metadataKey renders "metadata:<g>[:<a>[:<v>]][:<type>]", omitting the
// standard maven-metadata.xml type (spec §4.B "Metadata keys").
func metadataKey(m MetadataCoord) string {
	key := "metadata"
	if m.GroupID != "" {
		key += ":" + m.GroupID
		if m.ArtifactID != "" {
			key += ":" + m.ArtifactID
			if m.Version != "" {
				key += ":" + m.Version
			}
		}
	}
	if m.Type != "" && m.Type != standardMetadataType {
		key += ":" + sanitizePathSegment(m.Type)
	}
	return key
}

// fileStrategy wraps inner, rendering a filesystem-safe variant with "~"
// separators and a ".lock" suffix (spec §4.B "file-gav / file-gaecv").
type fileStrategy struct {
	inner Strategy
}

func (f fileStrategy) Name() string              { return "file-" + f.inner.Name() }
func (fileStrategy) IsFileSystemFriendly() bool   { return true }

func (f fileStrategy) ArtifactKey(a ArtifactCoord) string {
	return toFileVariant(f.inner.ArtifactKey(a))
}

func (f fileStrategy) MetadataKey(m MetadataCoord) string {
	return toFileVariant(f.inner.MetadataKey(m))
}

// hashedStrategy renders the SHA-1 hex digest of inner's key, bounding
// path length (spec §4.B "file-hgav / file-hgaecv").
type hashedStrategy struct {
	inner Strategy
}

func (h hashedStrategy) Name() string              { return "h" + h.inner.Name() }
func (hashedStrategy) IsFileSystemFriendly() bool  { return true }

func (h hashedStrategy) ArtifactKey(a ArtifactCoord) string {
	return hashKey(h.inner.ArtifactKey(a))
}

func (h hashedStrategy) MetadataKey(m MetadataCoord) string {
	return hashKey(h.inner.MetadataKey(m))
}

// discriminatingStrategy prefixes inner's key with hashes of the
// hostname and local-repo path, partitioning per machine + local repo
// (spec §4.B "discriminating").
type discriminatingStrategy struct {
	hostnameHash     string
	localRepoHash    string
	inner            Strategy
}

// NewDiscriminating builds the "discriminating" strategy over inner,
// used with the file backend.
func NewDiscriminating(hostname, localRepoPath string, inner Strategy) Strategy {
	return discriminatingStrategy{
		hostnameHash:  shortHash(hostname),
		localRepoHash: shortHash(localRepoPath),
		inner:         inner,
	}
}

func (d discriminatingStrategy) Name() string            { return "discriminating-" + d.inner.Name() }
func (d discriminatingStrategy) IsFileSystemFriendly() bool { return d.inner.IsFileSystemFriendly() }

func (d discriminatingStrategy) ArtifactKey(a ArtifactCoord) string {
	return fmt.Sprintf("%s:%s:%s", d.hostnameHash, d.localRepoHash, d.inner.ArtifactKey(a))
}

func (d discriminatingStrategy) MetadataKey(m MetadataCoord) string {
	return fmt.Sprintf("%s:%s:%s", d.hostnameHash, d.localRepoHash, d.inner.MetadataKey(m))
}
