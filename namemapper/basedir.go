package namemapper

import (
	"fmt"
	"path/filepath"
	"sync"
)

// BasedirMapper wraps a Mapper whose strategy is filesystem-friendly,
// resolving every rendered key against <localRepo>/<locksDirName>,
// canonicalized exactly once per local-repo path (spec §4.B "wrapped by
// basedir mapper that resolves each key against
// <localRepo>/<locksDirName> (canonicalized once)").
type BasedirMapper struct {
	mapper *Mapper

	once sync.Once
	base string
	err  error

	localRepo    string
	locksDirName string
}

// NewBasedirMapper returns a BasedirMapper rooted at
// <localRepo>/<locksDirName>, or an error if mapper's strategy isn't
// filesystem-friendly.
func NewBasedirMapper(mapper *Mapper, localRepo, locksDirName string) (*BasedirMapper, error) {
	if !mapper.Strategy().IsFileSystemFriendly() {
		return nil, fmt.Errorf("namemapper: strategy %q is not filesystem-friendly, cannot be used with a basedir mapper", mapper.Strategy().Name())
	}
	if locksDirName == "" {
		locksDirName = ".locks"
	}
	return &BasedirMapper{mapper: mapper, localRepo: localRepo, locksDirName: locksDirName}, nil
}

func (b *BasedirMapper) basedir() (string, error) {
	b.once.Do(func() {
		abs, err := filepath.Abs(filepath.Join(b.localRepo, b.locksDirName))
		if err != nil {
			b.err = err
			return
		}
		b.base = abs
	})
	return b.base, b.err
}

// Paths renders artifacts/metadata into absolute lock-file paths under
// the canonicalized basedir, in the same sorted order Mapper.Keys
// returns.
func (b *BasedirMapper) Paths(artifacts []ArtifactCoord, metadata []MetadataCoord) ([]string, error) {
	base, err := b.basedir()
	if err != nil {
		return nil, err
	}
	keys := b.mapper.Keys(artifacts, metadata)
	paths := make([]string, len(keys))
	for i, k := range keys {
		paths[i] = filepath.Join(base, k)
	}
	return paths, nil
}
