// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package analyzer

import (
	"context"
	"time"

	"phishguard/internal/telemetry"
	"phishguard/internal/webclient"
)

// TrustedBrand is one entry of the reference set of brands the matcher
// protects. The set is owned by an external store and re-read on every
// evaluation so authoritative updates take effect immediately.
type TrustedBrand struct {
	Name           string
	OfficialDomain string
}

// BrandSource returns the full current trusted-brand set on demand.
type BrandSource interface {
	ListBrands(ctx context.Context) ([]TrustedBrand, error)
}

// Analyzer runs the independent risk checks against a URL and combines them
// into a Verdict. One Analyzer serves concurrent evaluations; the only
// mutable state it holds is the domain-age cache and the provider registry,
// both safe for concurrent use.
type Analyzer struct {
	HTTP      *webclient.Client
	RDAPHTTP  *webclient.Client
	Brands    BrandSource
	AgeCache  *telemetry.TTLCache[time.Time]
	Telemetry *telemetry.Registry

	rdapBase string
	now      func() time.Time

	maxConcurrent int
	semaphore     chan struct{}
}

type Option func(*Analyzer)

// WithMaxConcurrent caps the number of evaluations running at once.
func WithMaxConcurrent(n int) Option {
	return func(a *Analyzer) {
		a.maxConcurrent = n
		a.semaphore = make(chan struct{}, n)
	}
}

// WithRDAPBase overrides the fallback registration-data endpoint.
func WithRDAPBase(base string) Option {
	return func(a *Analyzer) { a.rdapBase = base }
}

// WithAgeCacheSize bounds the domain-age cache capacity.
func WithAgeCacheSize(n int) Option {
	return func(a *Analyzer) {
		a.AgeCache = telemetry.NewTTLCache[time.Time]("domain_age", n, ageCacheTTL)
	}
}

// WithClock substitutes the time source. Tests use it to pin domain ages.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithWebClients substitutes the outbound HTTP clients.
func WithWebClients(general, rdap *webclient.Client) Option {
	return func(a *Analyzer) {
		a.HTTP = general
		a.RDAPHTTP = rdap
	}
}

func New(brands BrandSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		HTTP:          webclient.New(redirectTraceTimeout),
		RDAPHTTP:      webclient.New(ageLookupTimeout),
		Brands:        brands,
		AgeCache:      telemetry.NewTTLCache[time.Time]("domain_age", 500, ageCacheTTL),
		Telemetry:     telemetry.NewRegistry(),
		rdapBase:      "https://rdap.org",
		now:           time.Now,
		maxConcurrent: 6,
		semaphore:     make(chan struct{}, 6),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}
