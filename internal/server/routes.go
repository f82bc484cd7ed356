package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/status", s.status)
		api.GET("/vms", s.listVMs)
		api.GET("/projects", s.listProjects)

		api.GET("/restore-points", s.listRestorePoints)
		api.GET("/restore-points/:name/contents", s.restorePointContents)
		api.DELETE("/restore-points/:name", s.deleteRestorePoint)
		api.POST("/restore-points/bulk-delete", s.bulkDelete)

		api.POST("/retention/sweep", s.triggerSweep)
	}
}
