// the destructive half of the catalog. Deletion snapshots what is about to
// be lost before touching anything, so the caller always learns how many
// VMs and bytes went away even though the directory is gone afterwards.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Delete removes one restore point and reports what was removed. The name
// is validated before any filesystem access; statistics are snapshotted
// before removal starts.
func (c *Catalog) Delete(ctx context.Context, name string) (*DeleteStats, error) {
	cfg := c.config()

	if !validName(name, cfg.NamePrefix) {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	dir := filepath.Join(cfg.Root, name)
	info, err := c.fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", name, ErrNotDirectory)
	}

	stats := &DeleteStats{
		VMCount:   len(c.manifestEntries(dir, cfg)),
		SizeBytes: artifactSizeBytes(dir, cfg.ArtifactExt),
	}
	if err := c.fs.RemoveAll(ctx, dir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	c.log.Info("restore point deleted",
		"name", name,
		"vm_count", stats.VMCount,
		"size_bytes", stats.SizeBytes)
	return stats, nil
}

// BulkDelete deletes each named restore point independently. One bad name
// does not stop the rest; the summary totals cover successful items only.
func (c *Catalog) BulkDelete(ctx context.Context, names []string) (*BulkResult, error) {
	if len(names) == 0 {
		return nil, ErrEmptyRequest
	}

	res := &BulkResult{
		Results: make([]BulkItemResult, 0, len(names)),
		Summary: BulkSummary{TotalRequested: len(names)},
	}
	for _, name := range names {
		stats, err := c.Delete(ctx, name)
		if err != nil {
			res.Results = append(res.Results, BulkItemResult{
				Name:  name,
				Error: err.Error(),
			})
			res.Summary.Failed++
			continue
		}
		res.Results = append(res.Results, BulkItemResult{
			Name:      name,
			Success:   true,
			VMCount:   stats.VMCount,
			SizeBytes: stats.SizeBytes,
		})
		res.Summary.Succeeded++
		res.Summary.VMCount += stats.VMCount
		res.Summary.SizeBytes += stats.SizeBytes
	}
	return res, nil
}
