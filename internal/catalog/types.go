// Package catalog reads and destroys restore points: the timestamped
// directories an export run leaves under the catalog root, each holding a
// task manifest and the exported VM artifacts.
package catalog

import "encoding/json"

// RestorePoint summarizes one restore point directory.
// Counts and sizes are computed fresh from disk on every read.
type RestorePoint struct {
	Name      string  `json:"name"`
	Timestamp string  `json:"timestamp"`
	VMCount   int     `json:"vm_count"`
	SizeBytes int64   `json:"size_bytes"`
	SizeMB    float64 `json:"size_mb"`
}

// VMEntry is one exported VM as recorded in the task manifest, enriched
// with whether its artifact actually landed on disk.
type VMEntry struct {
	VMName       string `json:"vm_name"`
	VMUUID       string `json:"vm_uuid"`
	Project      string `json:"project"`
	TaskUUID     string `json:"task_uuid"`
	OVAName      string `json:"ova_name"`
	OVAExists    bool   `json:"ova_exists"`
	OVASizeBytes int64  `json:"ova_size_bytes"`
}

// Contents is the full view of a single restore point.
type Contents struct {
	RestorePoint string    `json:"restore_point"`
	VMs          []VMEntry `json:"vms"`
	VMCount      int       `json:"vm_count"`
}

// DeleteStats carries the statistics snapshotted just before a removal.
type DeleteStats struct {
	VMCount   int
	SizeBytes int64
}

// BulkItemResult is the outcome for one name in a bulk deletion.
type BulkItemResult struct {
	Name      string
	Success   bool
	VMCount   int
	SizeBytes int64
	Error     string
}

// MarshalJSON picks the wire shape by outcome: successful items carry the
// deletion counters, failed items carry only the error.
func (r BulkItemResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Name    string `json:"name"`
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{r.Name, r.Success, r.Error})
	}
	return json.Marshal(struct {
		Name      string `json:"name"`
		Success   bool   `json:"success"`
		VMCount   int    `json:"deleted_vm_count"`
		SizeBytes int64  `json:"deleted_size_bytes"`
	}{r.Name, r.Success, r.VMCount, r.SizeBytes})
}

// BulkSummary rolls up a bulk deletion. Size and VM totals cover
// successful items only.
type BulkSummary struct {
	TotalRequested int   `json:"total_requested"`
	Succeeded      int   `json:"successful_deletes"`
	Failed         int   `json:"failed_deletes"`
	SizeBytes      int64 `json:"total_deleted_size_bytes"`
	VMCount        int   `json:"total_deleted_vms"`
}

type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Summary BulkSummary      `json:"summary"`
}
