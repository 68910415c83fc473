package handlers

import (
	"net/http"

	"phishguard/internal/db"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	DB *db.Database
}

func NewStatsHandler(database *db.Database) *StatsHandler {
	return &StatsHandler{DB: database}
}

// Stats summarizes the evaluation log: totals, status distribution and the
// highest-risk entries.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.DB.CountLogs(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	statusCounts, err := h.DB.ListStatusCounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	topRisk, err := h.DB.ListTopRiskLogs(ctx, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_evaluations":   total,
		"status_distribution": statusCounts,
		"top_risk":            topRisk,
	})
}
