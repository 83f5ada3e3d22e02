package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/response"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// ─── In-memory limiter ─────────────────────────────────────────────

// MemoryLimiter is a per-process fixed-window limiter.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	period    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates a MemoryLimiter allowing limit hits per period.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// WithClock replaces the limiter's clock.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow records a hit for key.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.period {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	return decide(w.count, l.limit, w.resetAt), nil
}

// sweep drops expired windows. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

// ─── Redis limiter ─────────────────────────────────────────────────

// RedisLimiter is a fixed-window limiter shared by every server instance.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	period time.Duration
}

// NewRedisLimiter creates a RedisLimiter allowing limit hits per period.
func NewRedisLimiter(rdb *redis.Client, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, period: period}
}

// Allow increments the window counter for key, starting the window on the first hit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := l.rdb.PExpire(ctx, key, l.period).Err(); err != nil {
			return Decision{}, fmt.Errorf("pexpire %s: %w", key, err)
		}
	}

	ttl, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("pttl %s: %w", key, err)
	}
	if ttl < 0 {
		// Lost the expiry (e.g. crash between INCR and PEXPIRE); restart the window.
		_ = l.rdb.PExpire(ctx, key, l.period).Err()
		ttl = l.period
	}

	return decide(int(count), l.limit, time.Now().Add(ttl)), nil
}

func decide(count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// ─── Middleware ────────────────────────────────────────────────────

// RateLimit returns a Gin middleware that rate-limits requests per client IP
// within bucket. message overrides the default 429 message when non-empty.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter Limiter, bucket, message string, log zerolog.Logger, onReject func(bucket string)) gin.HandlerFunc {
	log = log.With().Str("component", "rate_limiter").Str("bucket", bucket).Logger()

	return func(c *gin.Context) {
		key := config.CacheKey.RateLimitKey(bucket, c.ClientIP())

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		resetSecs := int(time.Until(d.ResetAt).Round(time.Second).Seconds())
		if resetSecs < 0 {
			resetSecs = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(resetSecs))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(resetSecs))
			if onReject != nil {
				onReject(bucket)
			}
			if message == "" {
				response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			} else {
				response.AbortFailWithMessage(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded, message)
			}
			return
		}

		c.Next()
	}
}
