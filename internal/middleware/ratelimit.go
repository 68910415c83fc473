// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// The protection agent evaluates once per page navigation, so the
	// window is sized for active browsing, not human form submissions.
	RateLimitWindow      = 60
	RateLimitMaxRequests = 120
)

type RateLimitResult struct {
	Allowed     bool
	WaitSeconds int
}

type RateLimiter interface {
	CheckAndRecord(ip string) RateLimitResult
}

type InMemoryRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]float64
}

func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	limiter := &InMemoryRateLimiter{
		requests: make(map[string][]float64),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (l *InMemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := float64(time.Now().Unix())
		for ip, stamps := range l.requests {
			l.requests[ip] = pruneOld(stamps, now)
			if len(l.requests[ip]) == 0 {
				delete(l.requests, ip)
			}
		}
		l.mu.Unlock()
	}
}

func pruneOld(stamps []float64, now float64) []float64 {
	cutoff := now - RateLimitWindow
	result := stamps[:0]
	for _, ts := range stamps {
		if ts >= cutoff {
			result = append(result, ts)
		}
	}
	return result
}

func (l *InMemoryRateLimiter) CheckAndRecord(ip string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := float64(time.Now().Unix())
	l.requests[ip] = pruneOld(l.requests[ip], now)
	stamps := l.requests[ip]

	if len(stamps) >= RateLimitMaxRequests {
		waitSeconds := int(stamps[0]+RateLimitWindow-now) + 1
		if waitSeconds < 1 {
			waitSeconds = 1
		}
		return RateLimitResult{Allowed: false, WaitSeconds: waitSeconds}
	}

	l.requests[ip] = append(stamps, now)
	return RateLimitResult{Allowed: true}
}

// EvaluateRateLimit guards the evaluation endpoint per client IP.
func EvaluateRateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		result := limiter.CheckAndRecord(clientIP)

		if !result.Allowed {
			traceID, _ := c.Get("trace_id")
			slog.Info("Rate limit triggered",
				"trace_id", traceID,
				"ip", clientIP,
				"wait_seconds", result.WaitSeconds,
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":        "Rate limit reached. Please slow down.",
				"wait_seconds": result.WaitSeconds,
			})
			return
		}

		c.Next()
	}
}
