// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

// SignalResult is the unit every risk check produces: a non-negative score
// delta and the human-readable reasons behind it, first detected first.
//
// Unavailable marks the difference between "checked, found nothing" and
// "could not check": a probe that timed out or hit a dead upstream reports
// Unavailable with a zero delta, and the evaluation carries on without it.
type SignalResult struct {
	ScoreDelta  int      `json:"scoreDelta"`
	Reasons     []string `json:"reasons"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

func (s *SignalResult) add(delta int, reason string) {
	s.ScoreDelta += delta
	s.Reasons = append(s.Reasons, reason)
}

func unavailable(reasons ...string) SignalResult {
	return SignalResult{Reasons: reasons, Unavailable: true}
}
