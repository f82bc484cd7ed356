package catalog

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// artifactSizeBytes sums the sizes of artifact files anywhere under dir.
// Only names ending in ext count; everything else in the restore point
// (manifest, logs, partial downloads) is ignored. Unreadable entries
// contribute zero, a missing dir sums to zero.
func artifactSizeBytes(dir, ext string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
