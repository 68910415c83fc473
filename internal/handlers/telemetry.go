package handlers

import (
	"net/http"

	"phishguard/internal/analyzer"
	"phishguard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type TelemetryHandler struct {
	Engine *analyzer.Analyzer
}

func NewTelemetryHandler(engine *analyzer.Analyzer) *TelemetryHandler {
	return &TelemetryHandler{Engine: engine}
}

// Telemetry exposes provider health and cache stats for operators.
func (h *TelemetryHandler) Telemetry(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.Engine.Telemetry.AllStats(),
		"caches":    []telemetry.CacheStats{h.Engine.AgeCache.Stats()},
	})
}
