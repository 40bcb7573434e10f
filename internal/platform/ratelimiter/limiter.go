// Package ratelimiter throttles callers of the vault gateway by client key.
package ratelimiter

import (
	"strings"
	"time"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL = 10 * time.Minute
	sweepEvery     = 512
)

// PerClient applies one token bucket per client key and evicts buckets that
// have been idle longer than the TTL. A nil *PerClient allows everything.
type PerClient struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu      deadlock.Mutex
	clients map[string]*bucket
	hits    uint64
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New returns a limiter allowing rps requests per second per client with the
// given burst. Non-positive rps or burst disables limiting and returns nil.
func New(rps float64, burst int, idleTTL time.Duration) *PerClient {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &PerClient{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		clients: make(map[string]*bucket),
	}
}

// Allow reports whether client may make one more request at now.
func (l *PerClient) Allow(client string, now time.Time) bool {
	if l == nil {
		return true
	}
	client = strings.TrimSpace(client)
	if client == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[client]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%sweepEvery == 0 {
		l.evictIdle(now)
	}
	return allowed
}

func (l *PerClient) evictIdle(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, b := range l.clients {
		if b.lastSeen.Before(cutoff) {
			delete(l.clients, k)
		}
	}
}

// Len returns the number of tracked clients.
func (l *PerClient) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
