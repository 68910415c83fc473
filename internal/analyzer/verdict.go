// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import "math"

type Status string

const (
	StatusSafe       Status = "safe"
	StatusSuspicious Status = "suspicious"
	StatusDangerous  Status = "dangerous"
)

// maxAggregateScore is the assumed realistic ceiling of the summed signal
// scores; the risk percentage is normalized against it. Tune it when signals
// are added or rebalanced.
const maxAggregateScore = 40

const (
	safeMaxScore       = 5
	suspiciousMaxScore = 15
)

// Verdict is the engine's output for one evaluation.
// RiskPercent + SafetyPercent is always 100.
type Verdict struct {
	TotalScore    int      `json:"totalScore"`
	RiskPercent   int      `json:"riskPercent"`
	SafetyPercent int      `json:"safetyPercent"`
	Status        Status   `json:"status"`
	Reasons       []string `json:"reasons"`
	Unavailable   []string `json:"unavailableChecks,omitempty"`
}

// Classify maps a total score to its status band.
func Classify(totalScore int) Status {
	switch {
	case totalScore <= safeMaxScore:
		return StatusSafe
	case totalScore <= suspiciousMaxScore:
		return StatusSuspicious
	default:
		return StatusDangerous
	}
}

// RiskPercent normalizes a total score to [0,100].
func RiskPercent(totalScore int) int {
	clamped := totalScore
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	pct := int(math.Round(float64(clamped) / maxAggregateScore * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

func newVerdict(totalScore int, reasons, unavailableChecks []string) Verdict {
	if totalScore < 0 {
		totalScore = 0
	}
	risk := RiskPercent(totalScore)
	return Verdict{
		TotalScore:    totalScore,
		RiskPercent:   risk,
		SafetyPercent: 100 - risk,
		Status:        Classify(totalScore),
		Reasons:       reasons,
		Unavailable:   unavailableChecks,
	}
}
