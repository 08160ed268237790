package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := New(limit, window)
	l.now = clock.now
	return l, clock
}

func TestAllowExhaustsBucket(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	// other keys have their own bucket
	assert.True(t, l.Allow("b"))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	clock.advance(30 * time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestRefillCapsAtLimit(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	assert.True(t, l.Allow("a"))
	clock.advance(time.Hour)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestZeroLimitDeniesEverything(t *testing.T) {
	l, _ := newTestLimiter(0, time.Minute)
	assert.False(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestEvictDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)
	l.Allow("old")
	clock.advance(3 * time.Minute)
	l.Allow("fresh")

	l.evict()
	assert.Equal(t, 1, l.Len())
}

func TestRetryAfter(t *testing.T) {
	l := New(60, time.Minute)
	assert.Equal(t, time.Second, l.RetryAfter())
}
