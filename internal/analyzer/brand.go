// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarityFloor is the percentage above which a registrable domain is
// considered an impersonation of a brand's official domain.
const similarityFloor = 80

// BrandMatch compares the hostname against the trusted-brand reference set.
// A brand contributes only when its name appears in the hostname; every
// matching brand accumulates independently. The brand set is fetched fresh
// for each call, never cached.
func (a *Analyzer) BrandMatch(ctx context.Context, hostname, rootDomain string) SignalResult {
	var r SignalResult
	if hostname == "" || rootDomain == "" {
		return r
	}

	brands, err := a.Brands.ListBrands(ctx)
	if err != nil {
		slog.Warn("Trusted brand lookup failed", "error", err)
		return unavailable()
	}

	host := strings.ToLower(hostname)
	root := strings.ToLower(rootDomain)

	for _, b := range brands {
		name := strings.ToLower(b.Name)
		official := strings.ToLower(b.OfficialDomain)
		if name == "" || official == "" || !strings.Contains(host, name) {
			continue
		}

		if root == official {
			continue
		}

		if SimilarityPercent(root, official) > similarityFloor {
			r.add(12, fmt.Sprintf("Brand impersonation risk for %s (similar domain)", name))
		}

		if !strings.HasSuffix(root, official) {
			r.add(8, fmt.Sprintf("Brand only in subdomain for %s", name))
		}
	}

	return r
}

// SimilarityPercent is a symmetric, edit-distance based string similarity in
// [0,100], where 100 means identical.
func SimilarityPercent(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}

	longest := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > longest {
		longest = n
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(s1, s2)
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}
