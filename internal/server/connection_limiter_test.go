package server

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalConnectionLimiter_AcquireRelease(t *testing.T) {
	limiter := NewGlobalConnectionLimiter(3)

	assert.True(t, limiter.Acquire())
	assert.True(t, limiter.Acquire())
	assert.True(t, limiter.Acquire())
	assert.Equal(t, int64(3), limiter.Current())

	// At capacity
	assert.False(t, limiter.Acquire())

	limiter.Release()
	assert.Equal(t, int64(2), limiter.Current())
	assert.True(t, limiter.Acquire())
}

func TestGlobalConnectionLimiter_Concurrent(t *testing.T) {
	limiter := NewGlobalConnectionLimiter(100)
	var successCount int64

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if limiter.Acquire() {
				atomic.AddInt64(&successCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int64(100), successCount)
	assert.Equal(t, int64(100), limiter.Current())
}

func TestGlobalConnectionLimiter_CapacityPct(t *testing.T) {
	limiter := NewGlobalConnectionLimiter(4)
	assert.Equal(t, 0.0, limiter.CapacityPct())

	limiter.Acquire()
	assert.Equal(t, 25.0, limiter.CapacityPct())
}

func TestIPConnectionLimiter_PerIPIsolation(t *testing.T) {
	limiter := NewIPConnectionLimiter(2)

	assert.True(t, limiter.Acquire("10.0.0.1"))
	assert.True(t, limiter.Acquire("10.0.0.1"))
	assert.False(t, limiter.Acquire("10.0.0.1"), "third connection from same IP should fail")

	// A different IP is unaffected
	assert.True(t, limiter.Acquire("10.0.0.2"))

	limiter.Release("10.0.0.1")
	assert.Equal(t, 1, limiter.Count("10.0.0.1"))
	assert.True(t, limiter.Acquire("10.0.0.1"))
}

func TestIPConnectionLimiter_ReleaseUnknownIP(t *testing.T) {
	limiter := NewIPConnectionLimiter(2)

	// Releasing an IP with no connections must not underflow
	limiter.Release("10.0.0.9")
	assert.Equal(t, 0, limiter.Count("10.0.0.9"))
}

func TestConnectionRateLimiter_BurstThenLimited(t *testing.T) {
	limiter := NewConnectionRateLimiter(1.0, 3)

	// Burst allows the first three immediately
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))

	// Bucket is drained
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Other IPs have their own bucket
	assert.True(t, limiter.Allow("10.0.0.2"))
}
