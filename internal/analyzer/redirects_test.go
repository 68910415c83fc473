// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"phishguard/internal/analyzer"
	"phishguard/internal/webclient"
)

// newRedirectFixture serves a chain of n relative redirects ending in a 200.
func newRedirectFixture(t *testing.T, chainLength int) (*analyzer.Analyzer, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hop, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if hop < chainLength {
			http.Redirect(w, r, fmt.Sprintf("/hop/%d", hop+1), http.StatusFound)
			return
		}
		fmt.Fprint(w, "landing page")
	}))
	t.Cleanup(srv.Close)

	a := analyzer.New(staticBrands{},
		analyzer.WithWebClients(
			webclient.New(5*time.Second, webclient.WithAllowPrivate()),
			webclient.New(5*time.Second, webclient.WithAllowPrivate()),
		),
	)
	return a, srv.URL + "/hop/0"
}

func TestRedirectsLongChainScores(t *testing.T) {
	a, start := newRedirectFixture(t, 3)

	res := a.Redirects(context.Background(), start)

	if res.Unavailable {
		t.Fatal("trace unexpectedly unavailable")
	}
	if res.ScoreDelta != 6 {
		t.Errorf("expected score 6, got %d (%v)", res.ScoreDelta, res.Reasons)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "Redirect chain length: 3" {
		t.Errorf("unexpected reasons: %v", res.Reasons)
	}
}

func TestRedirectsShortChainIsClean(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		a, start := newRedirectFixture(t, n)
		res := a.Redirects(context.Background(), start)
		if res.ScoreDelta != 0 || len(res.Reasons) != 0 || res.Unavailable {
			t.Errorf("chain of %d: expected clean result, got %+v", n, res)
		}
	}
}

func TestRedirectsChainCappedAtTenHops(t *testing.T) {
	a, start := newRedirectFixture(t, 50)

	res := a.Redirects(context.Background(), start)

	if len(res.Reasons) != 1 || res.Reasons[0] != "Redirect chain length: 10" {
		t.Errorf("expected trace to stop at 10 hops, got %+v", res)
	}
}

func TestRedirectsUnreachableTargetIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	a := analyzer.New(staticBrands{},
		analyzer.WithWebClients(
			webclient.New(time.Second, webclient.WithAllowPrivate()),
			webclient.New(time.Second, webclient.WithAllowPrivate()),
		),
	)

	res := a.Redirects(context.Background(), target)

	if !res.Unavailable {
		t.Fatal("expected unavailable result")
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "Error while checking redirects" {
		t.Errorf("unexpected reasons: %v", res.Reasons)
	}
	if res.ScoreDelta != 0 {
		t.Errorf("unavailable result must not score, got %d", res.ScoreDelta)
	}
}
