package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second per client IP.
	Rate float64

	// Burst is the maximum number of requests allowed at once.
	Burst int

	// CleanupInterval is how often idle limiters are dropped.
	CleanupInterval time.Duration

	// IdleTimeout is how long a limiter may go unused before it is dropped.
	IdleTimeout time.Duration
}

// DefaultRateLimitConfig returns limits suited to inspection entry from a
// depot terminal shared by several inspectors.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Rate:            10,
		Burst:           20,
		CleanupInterval: 10 * time.Minute,
		IdleTimeout:     time.Hour,
	}
}

// RateLimiter applies a token bucket per client IP.
//
// The client IP comes from c.RealIP(). Behind a proxy, configure
// echo.IPExtractor so X-Forwarded-For cannot be spoofed.
type RateLimiter struct {
	limiters sync.Map // IP address -> *limiterEntry
	logger   *slog.Logger
	config   RateLimitConfig
	ctx      context.Context
	cancel   context.CancelFunc
}

// limiterEntry tracks last use as a Unix timestamp for atomic access.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Zero fields in config take their defaults. Call Shutdown to stop it.
func NewRateLimiter(logger *slog.Logger, config RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if config.Rate <= 0 {
		config.Rate = defaults.Rate
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		logger: logger,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	go rl.cleanupOldLimiters()

	return rl
}

// Middleware returns 429 with a Retry-After header once a client exceeds
// its budget.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	limit := fmt.Sprintf("%.0f", rl.config.Rate)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			limiter := rl.GetLimiter(ip)

			c.Response().Header().Set("X-RateLimit-Limit", limit)

			if !limiter.Allow() {
				rl.logger.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", c.Path()),
					slog.String("method", c.Request().Method))

				c.Response().Header().Set("Retry-After", "1")
				c.Response().Header().Set("X-RateLimit-Remaining", "0")

				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}

// GetLimiter returns the limiter for ip, creating it on first use.
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := time.Now().Unix()
	if entry, exists := rl.limiters.Load(ip); exists {
		limEntry := entry.(*limiterEntry)
		limEntry.lastAccess.Store(now)
		return limEntry.limiter
	}

	entry := &limiterEntry{
		limiter: rate.NewLimiter(rate.Limit(rl.config.Rate), rl.config.Burst),
	}
	entry.lastAccess.Store(now)
	actual, _ := rl.limiters.LoadOrStore(ip, entry)
	return actual.(*limiterEntry).limiter
}

// prune drops limiters idle since before cutoff and returns how many it removed.
func (rl *RateLimiter) prune(cutoff int64) int {
	var removed int
	rl.limiters.Range(func(key, value any) bool {
		if value.(*limiterEntry).lastAccess.Load() < cutoff {
			rl.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

func (rl *RateLimiter) cleanupOldLimiters() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.IdleTimeout).Unix()
			if removed := rl.prune(cutoff); removed > 0 {
				rl.logger.Info("cleaned up old rate limiters",
					slog.Int("removed", removed))
			}
		case <-rl.ctx.Done():
			rl.logger.Debug("rate limiter cleanup goroutine stopping")
			return
		}
	}
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimiter) Shutdown() {
	if rl.cancel != nil {
		rl.cancel()
	}
}
