package index

import (
	"io/fs"
	"os"
	"path/filepath"
)

// fingerprintCountMask reserves the low 20 bits of a fingerprint for the
// file count, leaving roughly millisecond mtime resolution above it.
const fingerprintCountMask = 1<<20 - 1

// Fingerprint derives a change-detection value for a poster folder from the
// newest mtime of the folder and its files plus the recursive file count.
// The count term catches deletions that leave mtimes untouched. Stat
// failures contribute nothing so a half-readable folder still fingerprints.
func Fingerprint(dir string) int64 {
	var maxNS int64
	var fileCount int64

	if info, err := os.Stat(dir); err == nil {
		maxNS = info.ModTime().UnixNano()
	}

	filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		fileCount++
		if info, err := entry.Info(); err == nil {
			if ns := info.ModTime().UnixNano(); ns > maxNS {
				maxNS = ns
			}
		}
		return nil
	})

	return (maxNS &^ fingerprintCountMask) + (fileCount & fingerprintCountMask)
}
