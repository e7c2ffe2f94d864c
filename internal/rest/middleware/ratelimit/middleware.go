package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alwat83/ifyoumind/internal/rest/middleware/header"
	"github.com/alwat83/ifyoumind/internal/setup/config"
	"github.com/alwat83/ifyoumind/pkg/utils"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	errBlocked    = "temporarily blocked for repeated rate limit violations"
	errRateLimit  = "rate limit exceeded"
	headerRetryAt = "Retry-After"
)

type limiterState struct {
	limiter      *rate.Limiter
	strikes      int       // Number of times client has violated rate limit
	blockedUntil time.Time // Time until client is blocked for repeated violations
}

// Middleware implements rate limiting for API requests.
type Middleware struct {
	limiters *utils.TTLMap[string, *limiterState]
	config   *config.RateLimit
	logger   *zap.Logger
	mu       sync.Mutex // Serializes get-or-create and strike accounting per check
}

// New creates a new rate limiting middleware.
func New(config *config.RateLimit, logger *zap.Logger) *Middleware {
	// Use the longer of block duration or burst window * 2 for TTL
	ttl := time.Second * time.Duration(config.BurstSize*2)
	if blockTTL := time.Second * time.Duration(config.BlockDuration*2); blockTTL > ttl {
		ttl = blockTTL
	}

	return &Middleware{
		limiters: utils.NewTTLMap[string, *limiterState](ttl),
		config:   config,
		logger:   logger.Named("ratelimit"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler for rate limiting.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		clientIP := header.FromRemoteAddr(req.Context())

		allowed, retryAfter := m.checkRateLimit(clientIP)
		if !allowed {
			if retryAfter > 0 {
				w.Header().Set(headerRetryAt, fmt.Sprintf("%.0f", retryAfter.Seconds()))
			}

			http.Error(w, errRateLimit, http.StatusTooManyRequests)

			return nil
		}

		return next(w, req)
	}
}

// checkRateLimit applies the token bucket for a client and tracks strikes.
// Returns whether the request is allowed and how long the client should wait.
func (m *Middleware) checkRateLimit(clientIP string) (bool, time.Duration) {
	// Two concurrent first requests from one client must share one bucket
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.limiters.Get(clientIP)
	if !ok {
		state = &limiterState{
			limiter: rate.NewLimiter(rate.Limit(m.config.RequestsPerSecond), m.config.BurstSize),
		}
	}

	now := time.Now()

	// Clients with repeated violations are blocked outright
	if now.Before(state.blockedUntil) {
		m.limiters.Set(clientIP, state)
		return false, state.blockedUntil.Sub(now)
	}

	if state.limiter.Allow() {
		m.limiters.Set(clientIP, state)
		return true, 0
	}

	state.strikes++
	if state.strikes >= m.config.StrikeLimit {
		state.blockedUntil = now.Add(time.Second * time.Duration(m.config.BlockDuration))
		state.strikes = 0

		m.logger.Warn("Client blocked for repeated rate limit violations",
			zap.String("clientIP", clientIP),
			zap.Time("blockedUntil", state.blockedUntil))
	}

	m.limiters.Set(clientIP, state)

	return false, time.Second
}
