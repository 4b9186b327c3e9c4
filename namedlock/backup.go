package namedlock

import (
	"github.com/pkg/errors"
	"github.com/termie/go-shutil"
)

// BackupLocksDir snapshots the lock directory at src into dst before a
// caller runs a risky maintenance operation (e.g. re-keying the name
// mapper's strategy) against a live local repository. Grounded on
// golang-dep's vcs_source.go/project_manager.go use of
// github.com/termie/go-shutil's CopyTree for cache-directory snapshots.
func BackupLocksDir(src, dst string) error {
	if err := shutil.CopyTree(src, dst, nil); err != nil {
		return errors.Wrapf(err, "namedlock: backup lock directory %s", src)
	}
	return nil
}
