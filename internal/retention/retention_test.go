package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raoulx24/ova-manager/internal/catalog"
	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/logging"
)

func writePoint(t *testing.T, root, name string, artifactSize int) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vm.ova"), make([]byte, artifactSize), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func newTestEngine(root string, keep int) (*Engine, *catalog.Catalog) {
	cat := catalog.New(config.CatalogConfig{
		Root:         root,
		NamePrefix:   "vm-export-",
		ArtifactExt:  ".ova",
		ManifestName: "vm_export_tasks.csv",
	}, logging.Nop{}, nil)
	eng := New(config.RetentionConfig{Enabled: true, KeepLast: keep}, cat, logging.Nop{})
	return eng, cat
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("prunes everything past keepLast", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", 10)
		writePoint(t, root, "vm-export-20240102-0300", 20)
		writePoint(t, root, "vm-export-20240103-0300", 30)
		writePoint(t, root, "vm-export-20240104-0300", 40)

		eng, cat := newTestEngine(root, 2)
		res, err := eng.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep: %v", err)
		}

		if res.Scanned != 4 || res.Kept != 2 || res.Deleted != 2 || res.Failed != 0 {
			t.Errorf("result = %+v, want scanned 4 kept 2 deleted 2 failed 0", res)
		}
		if res.BytesFreed != 30 {
			t.Errorf("BytesFreed = %d, want 30 (the two oldest)", res.BytesFreed)
		}

		points, err := cat.List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("len(points) = %d, want 2", len(points))
		}
		if points[0].Name != "vm-export-20240104-0300" || points[1].Name != "vm-export-20240103-0300" {
			t.Errorf("survivors = %s, %s; want the two newest", points[0].Name, points[1].Name)
		}
	})

	t.Run("under the limit nothing is deleted", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", 10)

		eng, cat := newTestEngine(root, 3)
		res, err := eng.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		if res.Scanned != 1 || res.Kept != 1 || res.Deleted != 0 {
			t.Errorf("result = %+v, want scanned 1 kept 1 deleted 0", res)
		}

		points, _ := cat.List()
		if len(points) != 1 {
			t.Errorf("len(points) = %d, want 1", len(points))
		}
	})

	t.Run("keepLast zero keeps everything", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", 10)
		writePoint(t, root, "vm-export-20240102-0300", 10)

		eng, cat := newTestEngine(root, 0)
		res, err := eng.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		if res.Deleted != 0 || res.Kept != 2 {
			t.Errorf("result = %+v, want nothing deleted", res)
		}

		points, _ := cat.List()
		if len(points) != 2 {
			t.Errorf("len(points) = %d, want 2", len(points))
		}
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", 10)
		writePoint(t, root, "vm-export-20240102-0300", 10)
		writePoint(t, root, "vm-export-20240103-0300", 10)

		eng, _ := newTestEngine(root, 1)
		if _, err := eng.Sweep(ctx); err != nil {
			t.Fatalf("first Sweep: %v", err)
		}
		res, err := eng.Sweep(ctx)
		if err != nil {
			t.Fatalf("second Sweep: %v", err)
		}
		if res.Scanned != 1 || res.Deleted != 0 {
			t.Errorf("second sweep = %+v, want scanned 1 deleted 0", res)
		}
	})

	t.Run("config update applies to the next sweep", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", 10)
		writePoint(t, root, "vm-export-20240102-0300", 10)
		writePoint(t, root, "vm-export-20240103-0300", 10)

		eng, cat := newTestEngine(root, 3)
		if _, err := eng.Sweep(ctx); err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		if points, _ := cat.List(); len(points) != 3 {
			t.Fatalf("len(points) = %d, want 3 before update", len(points))
		}

		eng.UpdateConfig(config.RetentionConfig{Enabled: true, KeepLast: 1})
		if _, err := eng.Sweep(ctx); err != nil {
			t.Fatalf("Sweep after update: %v", err)
		}
		if points, _ := cat.List(); len(points) != 1 {
			t.Errorf("len(points) = %d, want 1 after update", len(points))
		}
	})
}
