package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/logging"
)

const testManifestName = "vm_export_tasks.csv"

func testConfig(root string) config.CatalogConfig {
	return config.CatalogConfig{
		Root:         root,
		NamePrefix:   "vm-export-",
		ArtifactExt:  ".ova",
		ManifestName: testManifestName,
	}
}

func testCatalog(root string) *Catalog {
	return New(testConfig(root), logging.Nop{}, nil)
}

// writePoint creates a restore point directory with the given manifest body
// and artifact files (name -> size in bytes).
func writePoint(t *testing.T, root, name, manifest string, artifacts map[string]int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(dir, testManifestName), []byte(manifest), 0o644); err != nil {
			t.Fatalf("WriteFile manifest: %v", err)
		}
	}
	for file, size := range artifacts {
		if err := os.WriteFile(filepath.Join(dir, file), make([]byte, size), 0o644); err != nil {
			t.Fatalf("WriteFile artifact: %v", err)
		}
	}
	return dir
}

func TestList(t *testing.T) {
	t.Run("missing root is an empty catalog", func(t *testing.T) {
		c := testCatalog(filepath.Join(t.TempDir(), "does-not-exist"))
		points, err := c.List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(points) != 0 {
			t.Errorf("len(points) = %d, want 0", len(points))
		}
		if points == nil {
			t.Error("points = nil, want empty slice")
		}
	})

	t.Run("keeps only prefixed directories", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", "", nil)
		writePoint(t, root, "scratch", "", nil)
		if err := os.WriteFile(filepath.Join(root, "vm-export-stray-file"), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(points) != 1 {
			t.Fatalf("len(points) = %d, want 1", len(points))
		}
		if points[0].Name != "vm-export-20240101-0300" {
			t.Errorf("Name = %s, want vm-export-20240101-0300", points[0].Name)
		}
		if points[0].Timestamp != "20240101-0300" {
			t.Errorf("Timestamp = %s, want 20240101-0300", points[0].Timestamp)
		}
	})

	t.Run("sorts newest first", func(t *testing.T) {
		root := t.TempDir()
		for _, name := range []string{"vm-export-20240102-0300", "vm-export-20240110-0300", "vm-export-20240105-0300"} {
			writePoint(t, root, name, "", nil)
		}

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var names []string
		for _, p := range points {
			names = append(names, p.Name)
		}
		want := []string{"vm-export-20240110-0300", "vm-export-20240105-0300", "vm-export-20240102-0300"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("names = %v, want %v", names, want)
		}
	})

	t.Run("counts parsed manifest rows only", func(t *testing.T) {
		root := t.TempDir()
		manifest := "VM_NAME,VM_UUID,PROJECT_NAME,TASK_UUID,OVA_NAME\n" +
			"web-01,uuid-1,default,task-1,web-01.ova\n" +
			"garbage-line\n" +
			"db-01,uuid-2,default\n" +
			"only,two\n" +
			"app-01,uuid-3,tools,task-3,app-01.ova\n"
		writePoint(t, root, "vm-export-20240101-0300", manifest, nil)

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if points[0].VMCount != 3 {
			t.Errorf("VMCount = %d, want 3", points[0].VMCount)
		}
	})

	t.Run("sums artifact files only", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", "", map[string]int{
			"uuid-1.ova": 100,
			"uuid-2.ova": 250,
			"export.log": 9999,
		})

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if points[0].SizeBytes != 350 {
			t.Errorf("SizeBytes = %d, want 350", points[0].SizeBytes)
		}
	})

	t.Run("counts artifacts in subdirectories", func(t *testing.T) {
		root := t.TempDir()
		dir := writePoint(t, root, "vm-export-20240101-0300", "", map[string]int{"uuid-1.ova": 100})
		sub := filepath.Join(dir, "nested")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(filepath.Join(sub, "uuid-2.ova"), make([]byte, 50), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if points[0].SizeBytes != 150 {
			t.Errorf("SizeBytes = %d, want 150", points[0].SizeBytes)
		}
	})

	t.Run("rounds size_mb to two decimals", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", "", map[string]int{
			"uuid-1.ova": 1572864, // exactly 1.5 MB
		})
		writePoint(t, root, "vm-export-20240102-0300", "", map[string]int{
			"uuid-2.ova": 1894563, // 1.8067... MB
		})

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		// newest first: 0102 then 0101
		if points[0].SizeMB != 1.81 {
			t.Errorf("SizeMB = %v, want 1.81", points[0].SizeMB)
		}
		if points[1].SizeMB != 1.5 {
			t.Errorf("SizeMB = %v, want 1.5", points[1].SizeMB)
		}
	})

	t.Run("restore point without manifest still listed", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", "", map[string]int{"uuid-1.ova": 10})

		points, err := testCatalog(root).List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(points) != 1 {
			t.Fatalf("len(points) = %d, want 1", len(points))
		}
		if points[0].VMCount != 0 {
			t.Errorf("VMCount = %d, want 0", points[0].VMCount)
		}
	})

	t.Run("repeated reads agree", func(t *testing.T) {
		root := t.TempDir()
		manifest := "header\nweb-01,uuid-1,default,task-1,web-01.ova\n"
		writePoint(t, root, "vm-export-20240101-0300", manifest, map[string]int{"uuid-1.ova": 42})

		c := testCatalog(root)
		first, err := c.List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		second, err := c.List()
		if err != nil {
			t.Fatalf("List again: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("lists differ: %v vs %v", first, second)
		}
	})
}

func TestContents(t *testing.T) {
	t.Run("returns enriched manifest entries", func(t *testing.T) {
		root := t.TempDir()
		manifest := "VM_NAME,VM_UUID,PROJECT_NAME,TASK_UUID,OVA_NAME\n" +
			"web-01,uuid-1,default,task-1,web-01.ova\n" +
			"db-01,uuid-2,tools\n"
		writePoint(t, root, "vm-export-20240101-0300", manifest, map[string]int{"uuid-1.ova": 512})

		got, err := testCatalog(root).Contents("vm-export-20240101-0300")
		if err != nil {
			t.Fatalf("Contents: %v", err)
		}
		if got.RestorePoint != "vm-export-20240101-0300" {
			t.Errorf("RestorePoint = %s", got.RestorePoint)
		}
		if got.VMCount != 2 || len(got.VMs) != 2 {
			t.Fatalf("VMCount = %d, len(VMs) = %d, want 2, 2", got.VMCount, len(got.VMs))
		}

		first := got.VMs[0]
		if first.VMName != "web-01" || first.VMUUID != "uuid-1" || first.Project != "default" {
			t.Errorf("first entry = %+v", first)
		}
		if first.TaskUUID != "task-1" || first.OVAName != "web-01.ova" {
			t.Errorf("first entry trailing fields = %+v", first)
		}
		if !first.OVAExists || first.OVASizeBytes != 512 {
			t.Errorf("first artifact = exists %v size %d, want true 512", first.OVAExists, first.OVASizeBytes)
		}

		second := got.VMs[1]
		if second.TaskUUID != "" || second.OVAName != "" {
			t.Errorf("missing trailing fields should stay empty: %+v", second)
		}
		if second.OVAExists || second.OVASizeBytes != 0 {
			t.Errorf("second artifact = exists %v size %d, want false 0", second.OVAExists, second.OVASizeBytes)
		}
	})

	t.Run("header line skipped even when it parses", func(t *testing.T) {
		root := t.TempDir()
		manifest := "web-00,uuid-0,default,task-0,web-00.ova\n" +
			"web-01,uuid-1,default,task-1,web-01.ova\n"
		writePoint(t, root, "vm-export-20240101-0300", manifest, nil)

		got, err := testCatalog(root).Contents("vm-export-20240101-0300")
		if err != nil {
			t.Fatalf("Contents: %v", err)
		}
		if got.VMCount != 1 {
			t.Fatalf("VMCount = %d, want 1", got.VMCount)
		}
		if got.VMs[0].VMName != "web-01" {
			t.Errorf("VMName = %s, want web-01", got.VMs[0].VMName)
		}
	})

	t.Run("handles CRLF manifests", func(t *testing.T) {
		root := t.TempDir()
		manifest := "header\r\nweb-01,uuid-1,default\r\n"
		writePoint(t, root, "vm-export-20240101-0300", manifest, nil)

		got, err := testCatalog(root).Contents("vm-export-20240101-0300")
		if err != nil {
			t.Fatalf("Contents: %v", err)
		}
		if got.VMCount != 1 {
			t.Fatalf("VMCount = %d, want 1", got.VMCount)
		}
		if got.VMs[0].Project != "default" {
			t.Errorf("Project = %q, want default", got.VMs[0].Project)
		}
	})

	t.Run("missing manifest means empty vms", func(t *testing.T) {
		root := t.TempDir()
		writePoint(t, root, "vm-export-20240101-0300", "", nil)

		got, err := testCatalog(root).Contents("vm-export-20240101-0300")
		if err != nil {
			t.Fatalf("Contents: %v", err)
		}
		if got.VMCount != 0 {
			t.Errorf("VMCount = %d, want 0", got.VMCount)
		}
		if got.VMs == nil {
			t.Error("VMs = nil, want empty slice")
		}
	})

	t.Run("rejects names without the prefix", func(t *testing.T) {
		_, err := testCatalog(t.TempDir()).Contents("backups-20240101")
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("error = %v, want ErrInvalidName", err)
		}
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		_, err := testCatalog(t.TempDir()).Contents("vm-export-20991231-0300")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
