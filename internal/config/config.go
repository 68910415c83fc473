// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL   string
	Port          string
	AppVersion    string
	RDAPBaseURL   string
	AgeCacheSize  int
	MaxConcurrent int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	rdapBase := os.Getenv("RDAP_BASE_URL")
	if rdapBase == "" {
		rdapBase = "https://rdap.org"
	}

	return &Config{
		DatabaseURL:   dbURL,
		Port:          port,
		AppVersion:    "1.4.0",
		RDAPBaseURL:   rdapBase,
		AgeCacheSize:  getenvInt("AGE_CACHE_SIZE", 500),
		MaxConcurrent: getenvInt("MAX_CONCURRENT_EVALUATIONS", 6),
	}, nil
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
