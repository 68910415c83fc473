// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/url"
	"strings"
	"time"
)

const certDialTimeout = 2500 * time.Millisecond

// Certificate opens a TLS handshake to the URL's host and inspects the peer
// certificate's validity window and name coverage. Non-HTTPS URLs are a
// no-op; connectivity problems are not risk signals by themselves and report
// as unavailable. Expiry and hostname mismatch can both fire.
func (a *Analyzer) Certificate(ctx context.Context, rawURL string) SignalResult {
	var r SignalResult

	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Scheme, "https") {
		return r
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return r
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}

	ctx, cancel := context.WithTimeout(ctx, certDialTimeout)
	defer cancel()

	// Verification is manual on purpose: an expired or mismatched
	// certificate has to complete the handshake before it can be scored.
	dialer := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: certDialTimeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return unavailable()
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return unavailable()
	}
	cert := state.PeerCertificates[0]

	if !cert.NotAfter.IsZero() && cert.NotAfter.Before(a.now()) {
		r.add(10, "TLS certificate expired")
	}

	if !certMatchesHost(cert, host) {
		r.add(8, "TLS certificate hostname mismatch")
	}

	return r
}

// certMatchesHost accepts when the SAN entries mention the host, the common
// name equals it, or a wildcard common name covers it as a trailing match.
func certMatchesHost(cert *x509.Certificate, host string) bool {
	if host == "" {
		return true
	}

	var san strings.Builder
	for _, name := range cert.DNSNames {
		san.WriteString(strings.ToLower(name))
		san.WriteByte(' ')
	}
	for _, ip := range cert.IPAddresses {
		san.WriteString(ip.String())
		san.WriteByte(' ')
	}
	if strings.Contains(san.String(), host) {
		return true
	}

	cn := strings.ToLower(cert.Subject.CommonName)
	if cn == host {
		return true
	}
	if strings.HasPrefix(cn, "*.") {
		return strings.HasSuffix(host, cn[1:])
	}

	return false
}
