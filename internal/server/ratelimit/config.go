package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one endpoint. A Path ending in "/" prefix-matches, so
// "/jobs/" covers "/jobs/{id}" routes.
type Rule struct {
	Path   string
	Method string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity, defaults to Limit
}

// keyPath returns the bucket key component for a request path. Prefix
// rules share a bucket across everything under the prefix.
func (r *Rule) keyPath(path string) string {
	if r.Path != "" {
		return r.Path
	}
	return path
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

// LoadConfig reads limiter settings from the environment and applies the
// built-in endpoint rules.
func LoadConfig() *Config {
	enabled := envBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits.
func DefaultRules() []Rule {
	return []Rule{
		// Credential endpoints: 5 attempts per minute per client.
		{Path: "/auth/student/login", Method: "POST", Limit: 5, Window: time.Minute},
		{Path: "/auth/recruiter/login", Method: "POST", Limit: 5, Window: time.Minute},
		{Path: "/auth/student/register", Method: "POST", Limit: 10, Window: time.Minute},
		{Path: "/auth/recruiter/register", Method: "POST", Limit: 10, Window: time.Minute},

		// AI analysis and external fetches are expensive.
		{Path: "/applications/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 10},
		{Path: "/jobs/import", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Uploads.
		{Path: "/profile/resume", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/profile/photo", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Health checks are unlimited.
		{Path: "/health", Method: "GET", Limit: 0},
	}
}

// matchRule finds the rule for a path and method: exact match first, then
// "/"-suffixed prefix rules.
func matchRule(path, method string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Path == path && r.Method == method {
			return r
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
