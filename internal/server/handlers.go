// the handlers behind every route. Error bodies are always
// {"error": "..."}; catalog sentinel errors decide the status code.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/raoulx24/ova-manager/internal/catalog"
	"github.com/raoulx24/ova-manager/internal/metrics"
	"github.com/raoulx24/ova-manager/internal/worker"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ova-manager"})
}

// status reports whether the service can actually do its job: reachable
// catalog root, present credentials, retention state.
func (s *Server) status(c *gin.Context) {
	cfg := s.config()

	issues := []string{}
	if cfg.Prism.CredsFile != "" {
		if _, err := os.Stat(cfg.Prism.CredsFile); err != nil {
			issues = append(issues, fmt.Sprintf("missing credentials file: %s", cfg.Prism.CredsFile))
		}
	}
	if info, err := os.Stat(cfg.Catalog.Root); err != nil {
		issues = append(issues, fmt.Sprintf("restore points directory not accessible: %v", err))
	} else if !info.IsDir() {
		issues = append(issues, fmt.Sprintf("restore points path is not a directory: %s", cfg.Catalog.Root))
	}

	status := "ok"
	if len(issues) > 0 {
		status = "error"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"issues":             issues,
		"restore_points_dir": cfg.Catalog.Root,
		"retention": gin.H{
			"enabled":       cfg.Retention.Enabled,
			"keep_last":     cfg.Retention.KeepLast,
			"sweep_pending": s.sweeps.Pending(),
		},
	})
}

func (s *Server) listVMs(c *gin.Context) {
	vms, err := s.inventory.ListVMs(c.Request.Context())
	if err != nil {
		s.log.Error("inventory fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("failed to fetch vms: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vms": vms})
}

func (s *Server) listProjects(c *gin.Context) {
	vms, err := s.inventory.ListVMs(c.Request.Context())
	if err != nil {
		s.log.Error("inventory fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("failed to fetch vms: %v", err)})
		return
	}

	seen := make(map[string]struct{}, len(vms))
	projects := []string{}
	for _, vm := range vms {
		if _, ok := seen[vm.Project]; ok {
			continue
		}
		seen[vm.Project] = struct{}{}
		projects = append(projects, vm.Project)
	}
	sort.Strings(projects)
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) listRestorePoints(c *gin.Context) {
	points, err := s.catalog.List()
	if err != nil {
		s.log.Error("catalog list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to list restore points: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restore_points": points})
}

func (s *Server) restorePointContents(c *gin.Context) {
	contents, err := s.catalog.Contents(c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, contents)
}

func (s *Server) deleteRestorePoint(c *gin.Context) {
	name := c.Param("name")
	stats, err := s.catalog.Delete(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrDeleteFailed) {
			metrics.RestorePointDeletes.WithLabelValues("api", "failure").Inc()
		}
		s.renderError(c, err)
		return
	}

	metrics.RestorePointDeletes.WithLabelValues("api", "success").Inc()
	metrics.BytesReclaimed.Add(float64(stats.SizeBytes))
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            fmt.Sprintf("restore point %s deleted", name),
		"deleted_vm_count":   stats.VMCount,
		"deleted_size_bytes": stats.SizeBytes,
	})
}

type bulkDeleteRequest struct {
	RestorePoints []string `json:"restore_points"`
}

func (s *Server) bulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restore points format"})
		return
	}

	res, err := s.catalog.BulkDelete(c.Request.Context(), req.RestorePoints)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if res.Summary.Succeeded > 0 {
		metrics.RestorePointDeletes.WithLabelValues("api", "success").Add(float64(res.Summary.Succeeded))
		metrics.BytesReclaimed.Add(float64(res.Summary.SizeBytes))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": res.Results,
		"summary": res.Summary,
	})
}

// triggerSweep queues a retention sweep. The mailbox coalesces the request
// with any sweep already pending, so hammering this endpoint is harmless.
func (s *Server) triggerSweep(c *gin.Context) {
	s.sweeps.Put(worker.Request{Trigger: "api"})
	c.JSON(http.StatusAccepted, gin.H{"status": "sweep scheduled"})
}

// renderError maps catalog sentinel errors onto status codes. Anything
// unclassified is a 500 and gets logged; client mistakes do not.
func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrNotDirectory),
		errors.Is(err, catalog.ErrEmptyRequest):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
