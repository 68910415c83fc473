// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"net"
	"testing"
	"time"
)

func TestCertMatchesHost(t *testing.T) {
	tests := []struct {
		name string
		cert x509.Certificate
		host string
		want bool
	}{
		{
			"san dns match",
			x509.Certificate{DNSNames: []string{"example.com", "www.example.com"}},
			"www.example.com", true,
		},
		{
			"san ip match",
			x509.Certificate{IPAddresses: []net.IP{net.ParseIP("203.0.113.9")}},
			"203.0.113.9", true,
		},
		{
			"common name match",
			x509.Certificate{Subject: pkix.Name{CommonName: "Example.COM"}},
			"example.com", true,
		},
		{
			"wildcard common name covers subdomain",
			x509.Certificate{Subject: pkix.Name{CommonName: "*.example.com"}},
			"login.example.com", true,
		},
		{
			"wildcard does not cover the apex",
			x509.Certificate{Subject: pkix.Name{CommonName: "*.example.com"}},
			"example.com", false,
		},
		{
			"no coverage",
			x509.Certificate{DNSNames: []string{"other.net"}, Subject: pkix.Name{CommonName: "other.net"}},
			"example.com", false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := certMatchesHost(&tt.cert, tt.host); got != tt.want {
				t.Errorf("certMatchesHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestRegistrationDatePriority(t *testing.T) {
	d1 := "2020-01-01T00:00:00Z"
	d2 := "2025-06-01T00:00:00Z"

	events := []rdapEvent{
		{Action: "last changed", Date: d1},
		{Action: "registered", Date: d1},
		{Action: "created", Date: d2},
	}

	got, ok := registrationDate(events)
	if !ok {
		t.Fatal("expected a registration date")
	}
	want, _ := time.Parse(time.RFC3339, d2)
	if !got.Equal(want) {
		t.Errorf("expected the created event (%s) to outrank registered, got %s", want, got)
	}
}

func TestRegistrationDateNoMatchingEvent(t *testing.T) {
	if _, ok := registrationDate([]rdapEvent{{Action: "expiration", Date: "2030-01-01T00:00:00Z"}}); ok {
		t.Error("expected no registration date")
	}
	if _, ok := registrationDate(nil); ok {
		t.Error("expected no registration date for empty events")
	}
}

func TestScoreAgeBoundaries(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	a := New(nil, WithClock(func() time.Time { return now }))

	tests := []struct {
		days      int
		wantScore int
	}{
		{0, 15},
		{13, 15},
		{14, 10},
		{89, 10},
		{90, 0},
		{400, 0},
	}
	for _, tt := range tests {
		res := a.scoreAge(now.AddDate(0, 0, -tt.days))
		if res.ScoreDelta != tt.wantScore {
			t.Errorf("age %d days: expected score %d, got %d", tt.days, tt.wantScore, res.ScoreDelta)
		}
	}
}
