package aether

import "fmt"

// Artifact is a coordinate identifying an installable file in the local
// cache: a tuple of (groupId, artifactId, extension, classifier, version,
// baseVersion, properties). baseVersion is the declared version (a range or
// a concrete version); Version is the resolved concrete version. Classifier
// may be empty.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Extension  string
	Classifier string

	// Version is the resolved concrete version. Empty until resolution.
	Version string
	// BaseVersion is the declared version: a range expression or a single
	// concrete version, as written by whoever declared the dependency.
	BaseVersion string

	Properties map[string]string
}

// WithVersion returns a copy of a with Version and BaseVersion both set to
// v, used once a version range has been resolved to a concrete version.
func (a Artifact) WithVersion(v string) Artifact {
	a.Version = v
	a.BaseVersion = v
	return a
}

// GAFingerprint is the part of the coordinate used to group artifacts into
// conflict groups: (groupId, artifactId, classifier, extension).
type GAFingerprint struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Extension  string
}

// Fingerprint returns the conflict-group key fragment for a.
func (a Artifact) Fingerprint() GAFingerprint {
	return GAFingerprint{
		GroupID:    a.GroupID,
		ArtifactID: a.ArtifactID,
		Classifier: a.Classifier,
		Extension:  a.Extension,
	}
}

// GA returns the "groupId:artifactId" short form, used in lock keys and
// error messages.
func (a Artifact) GA() string {
	return a.GroupID + ":" + a.ArtifactID
}

// String renders the full coordinate, groupId:artifactId[:extension[:classifier]]:version,
// eliding the extension when it is "jar" (the Maven default) and the
// classifier when empty, matching convention used throughout error
// messages and trace output.
func (a Artifact) String() string {
	ext := a.Extension
	if ext == "" {
		ext = "jar"
	}
	v := a.Version
	if v == "" {
		v = a.BaseVersion
	}
	if a.Classifier == "" {
		if ext == "jar" {
			return fmt.Sprintf("%s:%s:%s", a.GroupID, a.ArtifactID, v)
		}
		return fmt.Sprintf("%s:%s:%s:%s", a.GroupID, a.ArtifactID, ext, v)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", a.GroupID, a.ArtifactID, ext, a.Classifier, v)
}

// Equal reports whether two artifacts have identical coordinates,
// including resolved version. Properties are not compared: they are
// metadata carried alongside the coordinate, not part of its identity.
func (a Artifact) Equal(o Artifact) bool {
	return a.GroupID == o.GroupID &&
		a.ArtifactID == o.ArtifactID &&
		a.Extension == o.Extension &&
		a.Classifier == o.Classifier &&
		a.Version == o.Version
}

// IsFatArtifact reports whether this artifact declares the "includesDependencies"
// property, meaning it bundles its own dependencies inline and the
// collector must not recurse into its declared children (spec §4.D.2.c).
func (a Artifact) IsFatArtifact() bool {
	return a.Properties["includesDependencies"] == "true"
}
