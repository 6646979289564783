package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  5,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/submissions/abc", "GET")
		assert.True(t, allowed, "request %d should be allowed", i)
	}
	allowed, info := l.Allow("1.2.3.4", "/submissions/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsPerClient(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})
	defer l.Stop()

	allowed, _ := l.Allow("1.1.1.1", "/outlets", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.1.1.1", "/outlets", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("2.2.2.2", "/outlets", "GET")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/submissions", "POST")
		assert.True(t, allowed)
	}
}

func TestSubmissionIntakeIsTighterThanReads(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	// Default intake burst is 5.
	var denied bool
	for i := 0; i < 10; i++ {
		if allowed, _ := l.Allow("9.9.9.9", "/submissions", "POST"); !allowed {
			denied = true
			break
		}
	}
	assert.True(t, denied, "submission intake should run out of burst before 10 requests")

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("9.9.9.9", "/submissions", "GET")
		assert.True(t, allowed, "reads use the lenient default budget")
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	m := MatchEndpoint("/submissions", "POST", configs)
	if assert.NotNil(t, m) {
		assert.Equal(t, 20, m.Limit)
	}

	m = MatchEndpoint("/submissions/123/regenerate", "POST", configs)
	if assert.NotNil(t, m) {
		assert.Equal(t, "/submissions/", m.Path)
	}

	assert.Nil(t, MatchEndpoint("/submissions/123", "GET", configs))

	health := MatchEndpoint("/health", "GET", configs)
	if assert.NotNil(t, health) {
		assert.Equal(t, 0, health.Limit, "health is unlimited")
	}
}
