package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig(rules []Rule) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules:         rules,
	}
}

func TestLoginLimit(t *testing.T) {
	limiter := NewLimiter(testConfig(DefaultRules()))
	defer limiter.Stop()

	// Five attempts pass, the sixth is limited.
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/auth/student/login", "POST")
		assert.True(t, allowed, "attempt %d", i+1)
	}
	allowed, info := limiter.Allow("10.0.0.1", "/auth/student/login", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(testConfig(DefaultRules()))
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Allow("10.0.0.1", "/auth/student/login", "POST")
	}
	allowed, _ := limiter.Allow("10.0.0.2", "/auth/student/login", "POST")
	assert.True(t, allowed)
}

func TestPrefixRule(t *testing.T) {
	rules := []Rule{{Path: "/applications/", Method: "POST", Limit: 2, Window: time.Hour}}
	limiter := NewLimiter(testConfig(rules))
	defer limiter.Stop()

	// Different IDs under the prefix share one bucket.
	allowed, _ := limiter.Allow("c", "/applications/111/resume-analysis", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/applications/222/resume-analysis", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/applications/333/resume-analysis", "POST")
	assert.False(t, allowed)
}

func TestUnlimitedEndpoint(t *testing.T) {
	limiter := NewLimiter(testConfig(DefaultRules()))
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestDisabledLimiter(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("c", "/auth/student/login", "POST")
		assert.True(t, allowed)
	}
}

func TestRefill(t *testing.T) {
	b := newBucket(1, 100) // fast refill for the test
	allowed, _, _ := b.take()
	assert.True(t, allowed)
	allowed, _, _ = b.take()
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)
	allowed, _, _ = b.take()
	assert.True(t, allowed)
}
