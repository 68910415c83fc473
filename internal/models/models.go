package models

import "phishguard/internal/analyzer"

// EvaluationRequest is the POST /api/risk/evaluate body. URL is the only
// required field; absent context flags default to false.
type EvaluationRequest struct {
	URL     string                     `json:"url"`
	UserID  *string                    `json:"userId"`
	Context analyzer.NavigationContext `json:"context"`
}

// EvaluationResponse mirrors the verdict the protection agent consumes, plus
// the identifier of the appended log row.
type EvaluationResponse struct {
	URLID         int64           `json:"urlId"`
	TotalScore    int             `json:"totalScore"`
	RiskPercent   int             `json:"riskPercent"`
	SafetyPercent int             `json:"safetyPercent"`
	Status        analyzer.Status `json:"status"`
	Reasons       []string        `json:"reasons"`
	Unavailable   []string        `json:"unavailableChecks,omitempty"`
}
