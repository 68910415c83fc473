// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"phishguard/internal/webclient"
)

var (
	// ErrInvalidURL rejects a request before any check runs. It is the only
	// evaluation error surfaced to callers besides overload.
	ErrInvalidURL = errors.New("url must be an absolute URL with a scheme and hostname")

	// ErrOverloaded reports that the engine is at capacity.
	ErrOverloaded = errors.New("evaluation capacity exhausted")
)

const acquireTimeout = 10 * time.Second

// NavigationContext carries optional client-side navigation flags. Absent
// fields default to false; TransitionType is recorded but never scored.
type NavigationContext struct {
	Redirected     bool   `json:"redirected"`
	ExternalLikely bool   `json:"externalLikely"`
	PopupSpam      bool   `json:"popupSpam"`
	TransitionType string `json:"transitionType"`
}

type namedResult struct {
	name   string
	result SignalResult
}

// Check names in merge order. Reasons always concatenate in this order, with
// each check's internal ordering preserved, so identical inputs yield
// identical verdicts regardless of which probe finishes first.
var mergeOrder = []string{"brand", "context", "redirects", "domain_age", "certificate", "lexical"}

// Evaluate runs every signal check against rawURL and combines the deltas
// into a Verdict. The checks are independent and run concurrently, each to
// its own timeout; a probe that cannot complete degrades to a zero-score
// unavailable result and the evaluation still finishes. In the worst case
// the verdict rests on the lexical analyzer alone.
func (a *Analyzer) Evaluate(ctx context.Context, rawURL string, nav NavigationContext) (Verdict, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return Verdict{}, ErrInvalidURL
	}

	select {
	case a.semaphore <- struct{}{}:
		defer func() { <-a.semaphore }()
	case <-time.After(acquireTimeout):
		slog.Warn("Backpressure: rejected evaluation", "url", rawURL)
		return Verdict{}, ErrOverloaded
	}

	hostname := webclient.ASCIIHostname(u.Hostname())
	rootDomain := webclient.RootDomain(hostname)

	start := time.Now()
	results := a.runChecks(ctx, rawURL, hostname, rootDomain)
	results["context"] = contextSignals(nav)

	totalScore := 0
	reasons := []string{}
	var unavailableChecks []string

	for _, name := range mergeOrder {
		res := results[name]
		totalScore += res.ScoreDelta
		reasons = append(reasons, res.Reasons...)
		if res.Unavailable {
			unavailableChecks = append(unavailableChecks, name)
		}
	}

	verdict := newVerdict(totalScore, reasons, unavailableChecks)
	slog.Info("Evaluation completed",
		"url", rawURL,
		"total_score", verdict.TotalScore,
		"status", string(verdict.Status),
		"elapsed_s", fmt.Sprintf("%.2f", time.Since(start).Seconds()),
	)
	return verdict, nil
}

// runChecks fans the independent checks out concurrently so total latency is
// bounded by the slowest probe rather than their sum. No check reads another
// check's output, and none cancels another on completion.
func (a *Analyzer) runChecks(ctx context.Context, rawURL, hostname, rootDomain string) map[string]SignalResult {
	resultsCh := make(chan namedResult, 8)
	var wg sync.WaitGroup

	tasks := map[string]func(){
		"brand":       func() { resultsCh <- namedResult{"brand", a.BrandMatch(ctx, hostname, rootDomain)} },
		"redirects":   func() { resultsCh <- namedResult{"redirects", a.Redirects(ctx, rawURL)} },
		"domain_age":  func() { resultsCh <- namedResult{"domain_age", a.DomainAge(ctx, rootDomain)} },
		"certificate": func() { resultsCh <- namedResult{"certificate", a.Certificate(ctx, rawURL)} },
		"lexical":     func() { resultsCh <- namedResult{"lexical", a.Lexical(rawURL)} },
	}

	for _, fn := range tasks {
		wg.Add(1)
		go func(f func()) {
			defer wg.Done()
			f()
		}(fn)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make(map[string]SignalResult, len(tasks)+1)
	for nr := range resultsCh {
		results[nr.name] = nr.result
	}
	return results
}

// contextSignals applies the caller-supplied navigation flags directly; they
// are fixed deltas, not a probe.
func contextSignals(nav NavigationContext) SignalResult {
	var r SignalResult
	if nav.Redirected {
		r.add(6, "Browser navigation shows redirect")
	}
	if nav.ExternalLikely {
		r.add(4, "Likely opened from external app (no referrer)")
	}
	if nav.PopupSpam {
		r.add(8, "Popup/new-tab spam behavior detected")
	}
	return r
}
