package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBudget(t *testing.T) {
	limiter := NewLimiter(time.Minute, 3)

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	// Other keys have their own budget.
	assert.True(t, limiter.Allow("b"))
}

func TestWindowExpiry(t *testing.T) {
	limiter := NewLimiter(20*time.Millisecond, 1)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("a"))
}

func TestDeniedHitsAreNotRecorded(t *testing.T) {
	limiter := NewLimiter(time.Minute, 2)

	limiter.Allow("a")
	limiter.Allow("a")
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.Allow("a"))
	}
}
