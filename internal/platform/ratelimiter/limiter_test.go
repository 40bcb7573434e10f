package ratelimiter_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dotflow/internal/platform/ratelimiter"
)

func TestAllowPerClient(t *testing.T) {
	l := ratelimiter.New(1, 2, time.Minute)
	now := time.Unix(1000, 0)

	assert.True(t, l.Allow("10.0.0.1", now))
	assert.True(t, l.Allow("10.0.0.1", now))
	assert.False(t, l.Allow("10.0.0.1", now), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2", now), "other clients have their own bucket")
	assert.True(t, l.Allow("10.0.0.1", now.Add(time.Second)), "bucket refills")
	assert.True(t, l.Allow("", now))
}

func TestNilLimiterAllows(t *testing.T) {
	l := ratelimiter.New(0, 0, 0)
	assert.Nil(t, l)
	assert.True(t, l.Allow("x", time.Now()))
	assert.Equal(t, 0, l.Len())
}

func TestIdleClientsAreEvicted(t *testing.T) {
	l := ratelimiter.New(100, 100, time.Second)
	start := time.Unix(0, 0)
	l.Allow("stale", start)

	later := start.Add(time.Minute)
	for i := 0; i < 600; i++ {
		l.Allow(fmt.Sprintf("c%d", i%3), later)
	}
	assert.Equal(t, 3, l.Len())
}
