package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware(t *testing.T, cfg config.RateLimit) *Middleware {
	t.Helper()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return New(&cfg, logger)
}

func TestAllowsWithinBurst(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         3,
		StrikeLimit:       3,
		BlockDuration:     60,
	})

	for range 3 {
		allowed, _ := m.checkRateLimit("10.0.0.1")
		assert.True(t, allowed)
	}
}

func TestRejectsBeyondBurst(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         2,
		StrikeLimit:       5,
		BlockDuration:     60,
	})

	m.checkRateLimit("10.0.0.2")
	m.checkRateLimit("10.0.0.2")

	allowed, retryAfter := m.checkRateLimit("10.0.0.2")
	assert.False(t, allowed)
	assert.Equal(t, time.Second, retryAfter)
}

func TestBlocksAfterRepeatedViolations(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         1,
		StrikeLimit:       2,
		BlockDuration:     60,
	})

	// Exhaust the bucket, then accumulate strikes
	m.checkRateLimit("10.0.0.3")
	m.checkRateLimit("10.0.0.3")
	m.checkRateLimit("10.0.0.3")

	allowed, retryAfter := m.checkRateLimit("10.0.0.3")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Second)
}

func TestConcurrentFirstRequestsShareOneBucket(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 0.001,
		BurstSize:         1,
		StrikeLimit:       10,
		BlockDuration:     60,
	})

	const requests = 16

	var (
		allowed atomic.Int64
		wg      sync.WaitGroup
	)

	for range requests {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if ok, _ := m.checkRateLimit("10.0.0.6"); ok {
				allowed.Add(1)
			}
		}()
	}

	wg.Wait()

	// A racing first request must not mint a second bucket
	assert.Equal(t, int64(1), allowed.Load())
}

func TestClientsAreIndependent(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         1,
		StrikeLimit:       3,
		BlockDuration:     60,
	})

	m.checkRateLimit("10.0.0.4")
	allowed, _ := m.checkRateLimit("10.0.0.4")
	require.False(t, allowed)

	allowed, _ = m.checkRateLimit("10.0.0.5")
	assert.True(t, allowed)
}
