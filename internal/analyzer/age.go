// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"phishguard/internal/webclient"
)

const (
	ageCacheTTL      = 6 * time.Hour
	ageLookupTimeout = 5 * time.Second

	newDomainDays    = 14
	recentDomainDays = 90
)

// Registries publish the registration event under slightly different action
// names; the first action in this list that appears wins.
var registrationEventActions = []string{"registration", "created", "registered"}

// Registries with direct RDAP endpoints, bypassing the rdap.org redirector
// for the common TLDs. Everything else falls through to the configured base.
var directRDAPEndpoints = map[string]string{
	"com":  "https://rdap.verisign.com/com/v1",
	"net":  "https://rdap.verisign.com/net/v1",
	"org":  "https://rdap.publicinterestregistry.net/rdap",
	"io":   "https://rdap.nic.io",
	"dev":  "https://rdap.nic.google",
	"app":  "https://rdap.nic.google",
	"co":   "https://rdap.nic.co",
	"me":   "https://rdap.nic.me",
	"ai":   "https://rdap.nic.ai",
	"xyz":  "https://rdap.centralnic.com/xyz",
	"top":  "https://rdap.nic.top",
	"site": "https://rdap.centralnic.com/site",
	"info": "https://rdap.afilias.net/rdap/info",
	"biz":  "https://rdap.nic.biz",
}

type rdapEvent struct {
	Action string `json:"eventAction"`
	Date   string `json:"eventDate"`
}

type rdapDomainDoc struct {
	Events []rdapEvent `json:"events"`
}

// DomainAge scores how recently the root domain was registered. The
// registration date comes from an RDAP lookup memoized for six hours; a
// cache hit never touches the network and returns the same creation date the
// miss stored. Age checking is best effort: lookup problems surface as an
// unavailable zero-score result, never as an error.
func (a *Analyzer) DomainAge(ctx context.Context, rootDomain string) SignalResult {
	if rootDomain == "" {
		return SignalResult{}
	}
	rootDomain = strings.ToLower(rootDomain)

	if createdAt, ok := a.AgeCache.Get(rootDomain); ok {
		return a.scoreAge(createdAt)
	}

	createdAt, ok := a.fetchCreatedAt(ctx, rootDomain)
	if !ok {
		return unavailable()
	}

	a.AgeCache.Set(rootDomain, createdAt)
	return a.scoreAge(createdAt)
}

func (a *Analyzer) scoreAge(createdAt time.Time) SignalResult {
	var r SignalResult
	ageDays := int(a.now().Sub(createdAt).Hours() / 24)
	switch {
	case ageDays < newDomainDays:
		r.add(15, fmt.Sprintf("New domain (%d days old)", ageDays))
	case ageDays < recentDomainDays:
		r.add(10, fmt.Sprintf("Recently created domain (%d days old)", ageDays))
	}
	return r
}

func (a *Analyzer) fetchCreatedAt(ctx context.Context, rootDomain string) (time.Time, bool) {
	providerName := "rdap:" + webclient.TLD(rootDomain)
	if a.Telemetry.InCooldown(providerName) {
		slog.Info("Registration-data provider in cooldown, skipping", "provider", providerName)
		return time.Time{}, false
	}

	endpoint := directRDAPEndpoints[webclient.TLD(rootDomain)]
	if endpoint == "" {
		endpoint = a.rdapBase
	}
	lookupURL := fmt.Sprintf("%s/domain/%s", strings.TrimRight(endpoint, "/"), url.PathEscape(rootDomain))

	ctx, cancel := context.WithTimeout(ctx, ageLookupTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.RDAPHTTP.Get(ctx, lookupURL)
	if err != nil {
		a.Telemetry.RecordFailure(providerName, err.Error())
		slog.Warn("Registration-data lookup failed", "domain", rootDomain, "error", err)
		return time.Time{}, false
	}

	body, err := a.RDAPHTTP.ReadBody(resp, 1<<20)
	if err != nil {
		a.Telemetry.RecordFailure(providerName, err.Error())
		return time.Time{}, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.Telemetry.RecordFailure(providerName, fmt.Sprintf("HTTP %d", resp.StatusCode))
		return time.Time{}, false
	}

	var doc rdapDomainDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		a.Telemetry.RecordFailure(providerName, "invalid JSON")
		return time.Time{}, false
	}

	a.Telemetry.RecordSuccess(providerName, time.Since(start))

	return registrationDate(doc.Events)
}

// registrationDate picks the registration event by action priority; the
// first action with a match wins, even when its timestamp will not parse.
func registrationDate(events []rdapEvent) (time.Time, bool) {
	for _, action := range registrationEventActions {
		for _, e := range events {
			if strings.EqualFold(e.Action, action) {
				t, err := time.Parse(time.RFC3339, e.Date)
				if err != nil {
					return time.Time{}, false
				}
				return t, true
			}
		}
	}
	return time.Time{}, false
}
