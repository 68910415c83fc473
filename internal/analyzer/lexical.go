// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"phishguard/internal/webclient"
)

// Fixed lexical heuristics. All lists and thresholds are configuration
// constants; nothing here is derived at runtime or touches the network.
var (
	suspiciousKeywords = []string{
		"login-secure", "verification", "update-account", "confirm", "free-gift",
	}

	suspiciousTLDs = map[string]bool{
		"xyz": true, "top": true, "click": true, "live": true, "loan": true,
		"work": true, "support": true, "monster": true, "gq": true, "tk": true,
		"site": true, "fun": true, "online": true, "vip": true, "bet": true,
	}

	shortenerDomains = map[string]bool{
		"bit.ly": true, "t.co": true, "tinyurl.com": true, "rb.gy": true,
		"cutt.ly": true, "goo.gl": true, "lnkd.in": true, "fb.me": true,
	}

	trackingParamPrefixes = []string{
		"gclid=", "fbclid=", "utm_source=", "utm_medium=", "utm_campaign=",
		"ref=", "aff=", "affiliate=",
	}

	digitRunRe = regexp.MustCompile(`[0-9]{3,}`)
)

const (
	manyHyphens  = 3
	manyDigits   = 5
	longHostname = 35
	deepLabels   = 4
)

// Lexical inspects the URL string itself for structural risk markers. It is
// advisory: an unparseable URL yields an empty result, never an error.
func (a *Analyzer) Lexical(rawURL string) SignalResult {
	var r SignalResult

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return r
	}

	host := strings.ToLower(u.Hostname())
	lowerURL := strings.ToLower(rawURL)

	if !strings.EqualFold(u.Scheme, "https") {
		r.add(5, "No HTTPS detected")
	}

	for _, w := range suspiciousKeywords {
		if strings.Contains(lowerURL, w) {
			r.add(6, "Suspicious keywords in URL")
			break
		}
	}

	if webclient.IsIPHost(host) {
		r.add(12, "Hostname is an IP address (common in phishing)")
	}

	if strings.HasPrefix(host, "xn--") || strings.Contains(host, ".xn--") {
		r.add(10, "Punycode domain detected (possible lookalike)")
	}

	labels := strings.FieldsFunc(host, func(c rune) bool { return c == '.' })
	if tld := webclient.TLD(host); suspiciousTLDs[tld] {
		r.add(8, fmt.Sprintf("Suspicious TLD detected (.%s)", tld))
	}

	if strings.Count(host, "-") >= manyHyphens {
		r.add(4, "Many hyphens in hostname")
	}

	digits := 0
	for _, c := range host {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	if digits >= manyDigits {
		r.add(4, "Many digits in hostname")
	} else if digitRunRe.MatchString(host) {
		r.add(3, "Suspicious digit pattern in hostname")
	}

	if len(host) >= longHostname {
		r.add(4, "Very long hostname")
	}

	if len(labels) >= deepLabels {
		r.add(4, "Deep subdomain chain")
	}

	lastTwo := ""
	if len(labels) >= 2 {
		lastTwo = strings.Join(labels[len(labels)-2:], ".")
	}
	if shortenerDomains[host] || shortenerDomains[lastTwo] {
		r.add(10, "Known redirect/shortener domain")
	}

	if q := strings.ToLower(u.RawQuery); q != "" {
		for _, p := range trackingParamPrefixes {
			if strings.Contains(q, p) {
				r.add(2, "Ad/affiliate tracking parameters")
				break
			}
		}
	}

	return r
}
