// Package inventory exposes the live VM inventory that export runs are cut
// from. The catalog tells you what was saved; this package tells you what
// currently exists.
package inventory

import "context"

// VM is one inventory entry, normalized for the API surface.
type VM struct {
	Name        string `json:"name"`
	UUID        string `json:"uuid"`
	Project     string `json:"project"`
	PowerState  string `json:"power_state"`
	Cluster     string `json:"cluster"`
	Description string `json:"description"`
	MemoryMB    int64  `json:"memory_mb"`
	VCPUs       int    `json:"vcpus"`
}

// Source lists VMs from wherever inventory lives.
type Source interface {
	ListVMs(ctx context.Context) ([]VM, error)
}
