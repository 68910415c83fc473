// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package webclient

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Hostname returns the lowercase hostname of rawURL, or "" when the URL does
// not parse or carries no host.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ASCIIHostname maps a hostname to its ASCII (punycode) form so that
// internationalized hosts compare consistently. Falls back to the lowercase
// input when IDNA mapping fails.
func ASCIIHostname(hostname string) string {
	hostname = strings.ToLower(strings.TrimSuffix(hostname, "."))
	p := idna.New(idna.MapForLookup(), idna.Transitional(false))
	if ascii, err := p.ToASCII(hostname); err == nil && ascii != "" {
		return ascii
	}
	return hostname
}

// RootDomain returns the registrable domain (eTLD+1) for hostname. The public
// suffix list handles multi-label suffixes like co.uk; when it has no answer
// the last two labels are used, matching the common single-label-TLD case.
// IP hosts have no root domain.
func RootDomain(hostname string) string {
	hostname = strings.ToLower(strings.TrimSuffix(hostname, "."))
	if hostname == "" || IsIPHost(hostname) {
		return ""
	}

	if root, err := publicsuffix.EffectiveTLDPlusOne(hostname); err == nil {
		return root
	}

	parts := strings.Split(hostname, ".")
	if len(parts) <= 2 {
		return hostname
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// IsIPHost reports whether hostname is a literal IP address. IPv6 hosts are
// accepted with or without the URL brackets, since url.Hostname strips them.
func IsIPHost(hostname string) bool {
	if strings.HasPrefix(hostname, "[") && strings.HasSuffix(hostname, "]") {
		hostname = hostname[1 : len(hostname)-1]
	}
	return net.ParseIP(hostname) != nil
}

// TLD returns the lowercase last label of hostname.
func TLD(hostname string) string {
	hostname = strings.TrimSuffix(hostname, ".")
	idx := strings.LastIndex(hostname, ".")
	if idx < 0 {
		return strings.ToLower(hostname)
	}
	return strings.ToLower(hostname[idx+1:])
}
