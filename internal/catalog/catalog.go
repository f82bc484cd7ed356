// the concrete implementation of the restore point catalog. Listing
// enumerates prefixed directories under the root and prices each one from
// its manifest and artifacts, so the catalog never holds state that can
// drift from disk.

package catalog

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/fs"
	"github.com/raoulx24/ova-manager/internal/logging"
)

// Catalog reads restore points from the catalog root and removes them on
// request. It is safe for concurrent use; configuration may be swapped at
// runtime via UpdateConfig.
type Catalog struct {
	mu  sync.RWMutex
	cfg config.CatalogConfig

	fs  fs.FS
	log logging.Logger
}

// New creates a Catalog over the given root. A nil filesystem defaults to
// the real one; tests inject a fake to force failures.
func New(cfg config.CatalogConfig, log logging.Logger, filesystem fs.FS) *Catalog {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Catalog{
		cfg: cfg,
		fs:  filesystem,
		log: log,
	}
}

// UpdateConfig swaps the catalog configuration. In-flight operations keep
// the config they started with.
func (c *Catalog) UpdateConfig(cfg config.CatalogConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

func (c *Catalog) config() config.CatalogConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// List returns every restore point under the root, newest first. A missing
// root is an empty catalog, not an error.
func (c *Catalog) List() ([]RestorePoint, error) {
	cfg := c.config()

	entries, err := c.fs.ReadDir(cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return []RestorePoint{}, nil
		}
		return nil, fmt.Errorf("reading catalog root %s: %w", cfg.Root, err)
	}

	points := []RestorePoint{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, cfg.NamePrefix) {
			continue
		}
		dir := filepath.Join(cfg.Root, name)
		vms := c.manifestEntries(dir, cfg)
		size := artifactSizeBytes(dir, cfg.ArtifactExt)
		points = append(points, RestorePoint{
			Name:      name,
			Timestamp: strings.TrimPrefix(name, cfg.NamePrefix),
			VMCount:   len(vms),
			SizeBytes: size,
			SizeMB:    roundMB(size),
		})
	}

	// names embed a sortable timestamp, so lexicographic descending is
	// newest first
	sort.Slice(points, func(i, j int) bool { return points[i].Name > points[j].Name })
	return points, nil
}

// Contents returns the manifest view of a single restore point.
func (c *Catalog) Contents(name string) (*Contents, error) {
	cfg := c.config()

	if !validName(name, cfg.NamePrefix) {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	dir := filepath.Join(cfg.Root, name)
	if _, err := c.fs.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	vms := c.manifestEntries(dir, cfg)
	return &Contents{
		RestorePoint: name,
		VMs:          vms,
		VMCount:      len(vms),
	}, nil
}

// validName reports whether name is a plausible restore point name: it must
// carry the catalog prefix and stay a single path element.
func validName(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

func roundMB(bytes int64) float64 {
	mb := float64(bytes) / (1 << 20)
	return math.Round(mb*100) / 100
}
