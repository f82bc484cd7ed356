// manifest parsing for restore points. The export job writes one comma
// separated row per VM task; the file is advisory and may be missing or
// truncated, so every failure here degrades to an empty result.

package catalog

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/raoulx24/ova-manager/internal/config"
)

// manifestEntries parses the task manifest inside dir and enriches each row
// with the on-disk state of its artifact. A missing or unreadable manifest
// yields an empty slice, never an error.
func (c *Catalog) manifestEntries(dir string, cfg config.CatalogConfig) []VMEntry {
	path := filepath.Join(dir, cfg.ManifestName)
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("manifest unreadable", "path", path, "error", err)
		}
		return []VMEntry{}
	}
	defer f.Close()

	entries := []VMEntry{}
	scanner := bufio.NewScanner(f)
	header := true
	for scanner.Scan() {
		if header {
			// first line is the column header, skipped unconditionally
			header = false
			continue
		}
		parts := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(parts) < 3 {
			continue
		}
		entry := VMEntry{
			VMName:  parts[0],
			VMUUID:  parts[1],
			Project: parts[2],
		}
		if len(parts) > 3 {
			entry.TaskUUID = parts[3]
		}
		if len(parts) > 4 {
			entry.OVAName = parts[4]
		}
		// artifact presence keys off the UUID, not the recorded name
		if info, err := os.Stat(filepath.Join(dir, entry.VMUUID+cfg.ArtifactExt)); err == nil {
			entry.OVAExists = true
			entry.OVASizeBytes = info.Size()
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		c.log.Warn("manifest read aborted", "path", path, "error", err)
	}
	return entries
}
