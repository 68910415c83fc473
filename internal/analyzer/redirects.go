// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const (
	maxRedirectHops      = 10
	redirectHopFloor     = 2
	redirectTraceTimeout = 8 * time.Second
)

// Redirects follows the URL's redirect chain and scores long chains. Hops
// are counted by following Location headers explicitly, not read back from
// any HTTP client's internal redirect bookkeeping.
func (a *Analyzer) Redirects(ctx context.Context, rawURL string) SignalResult {
	ctx, cancel := context.WithTimeout(ctx, redirectTraceTimeout)
	defer cancel()

	hops, err := a.traceRedirects(ctx, rawURL)
	if err != nil {
		slog.Debug("Redirect trace failed", "url", rawURL, "error", err)
		return unavailable("Error while checking redirects")
	}

	var r SignalResult
	if hops > redirectHopFloor {
		r.add(6, fmt.Sprintf("Redirect chain length: %d", hops))
	}
	return r
}

func (a *Analyzer) traceRedirects(ctx context.Context, rawURL string) (int, error) {
	current := rawURL
	hops := 0

	for hops < maxRedirectHops {
		resp, err := a.HTTP.Get(ctx, current)
		if err != nil {
			return 0, err
		}

		loc := resp.Header.Get("Location")
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()

		if resp.StatusCode < 300 || resp.StatusCode >= 400 || loc == "" {
			return hops, nil
		}

		next, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return hops, nil
		}
		current = next.String()
		hops++
	}

	return hops, nil
}
