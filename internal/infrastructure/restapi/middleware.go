package restapi

import (
	"net/http"
	"strings"
	"time"

	"livetrack/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitMessage is returned with 429 responses.
const RateLimitMessage = "Rate limit exceeded. Please try again in a moment."

// ZapLoggerMiddleware logs every request through zap.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ClientIP(c.Request)),
			zap.Duration("latency", time.Since(start)),
			zap.Int("size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// ClientIP picks the caller address from proxy headers: X-Real-IP, then the
// first X-Forwarded-For entry, then CF-Connecting-IP. Falls back to "unknown".
func ClientIP(r *http.Request) string {
	for _, h := range []string{"X-Real-IP", "X-Forwarded-For", "CF-Connecting-IP"} {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if first := strings.TrimSpace(strings.Split(v, ",")[0]); first != "" {
			return first
		}
	}
	return "unknown"
}

// IPRateLimiter hands out one token bucket per client IP. Idle buckets
// expire after ten minutes.
type IPRateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

// NewIPRateLimiter allows perMinute requests per minute for every IP.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &IPRateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: cache.New(10*time.Minute, 20*time.Minute),
	}
}

// Allow reports whether one more request from ip is allowed now.
func (l *IPRateLimiter) Allow(ip string) bool {
	if v, ok := l.limiters.Get(ip); ok {
		l.limiters.SetDefault(ip, v)
		return v.(*rate.Limiter).Allow()
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	// Add fails when another request created the bucket first.
	if err := l.limiters.Add(ip, lim, cache.DefaultExpiration); err != nil {
		if v, ok := l.limiters.Get(ip); ok {
			return v.(*rate.Limiter).Allow()
		}
	}
	return lim.Allow()
}

// RateLimitMiddleware rejects requests over the per-IP limit with 429.
func RateLimitMiddleware(limiter *IPRateLimiter, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(ClientIP(c.Request)) {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: RateLimitMessage})
			return
		}
		c.Next()
	}
}
