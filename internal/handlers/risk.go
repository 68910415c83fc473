package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"phishguard/internal/analyzer"
	"phishguard/internal/models"

	"github.com/gin-gonic/gin"
)

// Evaluator is the engine surface the transport needs.
type Evaluator interface {
	Evaluate(ctx context.Context, rawURL string, nav analyzer.NavigationContext) (analyzer.Verdict, error)
}

// VerdictSink records a computed verdict and returns the generated log id.
type VerdictSink interface {
	LogVerdict(ctx context.Context, userID *string, url string, totalScore int, status string, reasons []string) (int64, error)
}

type RiskHandler struct {
	Engine Evaluator
	Sink   VerdictSink
}

func NewRiskHandler(engine Evaluator, sink VerdictSink) *RiskHandler {
	return &RiskHandler{Engine: engine, Sink: sink}
}

// Evaluate scores a URL and appends the verdict to the URL log. Input
// validation failures are client errors; a verdict that computes but cannot
// be recorded is a server error, reported distinctly.
func (h *RiskHandler) Evaluate(c *gin.Context) {
	var req models.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	ctx := c.Request.Context()
	verdict, err := h.Engine.Evaluate(ctx, req.URL, req.Context)
	switch {
	case errors.Is(err, analyzer.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, analyzer.ErrOverloaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "System is currently at capacity. Please try again in a moment.",
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	logID, err := h.Sink.LogVerdict(ctx, req.UserID, req.URL, verdict.TotalScore, string(verdict.Status), verdict.Reasons)
	if err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to record evaluation", "trace_id", traceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "verdict computed but could not be recorded",
		})
		return
	}

	c.JSON(http.StatusOK, models.EvaluationResponse{
		URLID:         logID,
		TotalScore:    verdict.TotalScore,
		RiskPercent:   verdict.RiskPercent,
		SafetyPercent: verdict.SafetyPercent,
		Status:        verdict.Status,
		Reasons:       verdict.Reasons,
		Unavailable:   verdict.Unavailable,
	})
}
