package handlers

import (
	"net/http"
	"runtime"
	"time"

	"phishguard/internal/analyzer"
	"phishguard/internal/db"
	"phishguard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	DB        *db.Database
	Engine    *analyzer.Analyzer
	StartTime time.Time
}

func NewHealthHandler(database *db.Database, engine *analyzer.Analyzer) *HealthHandler {
	return &HealthHandler{
		DB:        database,
		Engine:    engine,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"ok":     true,
		"uptime": time.Since(h.StartTime).String(),
		"database": gin.H{
			"status": dbStatus,
		},
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Engine != nil {
		providerStats := h.Engine.Telemetry.AllStats()

		overallState := telemetry.Healthy
		for _, ps := range providerStats {
			if ps.State == telemetry.Unhealthy {
				overallState = telemetry.Unhealthy
				break
			}
			if ps.State == telemetry.Degraded {
				overallState = telemetry.Degraded
			}
		}

		response["providers"] = providerStats
		response["caches"] = []telemetry.CacheStats{h.Engine.AgeCache.Stats()}
		response["overall_provider_health"] = string(overallState)
	}

	c.JSON(http.StatusOK, response)
}

// DBHealth is the narrow database liveness probe the deployment pings.
func (h *HealthHandler) DBHealth(c *gin.Context) {
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "db": true})
}
