package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// defaultWriteBurst applies when the configured burst is not positive.
const defaultWriteBurst = 10

// NewRateLimiter creates a limiter allowing perMinute requests per key
// per minute, with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = defaultWriteBurst
	}
	return ratelimit.PerMinute(perMinute, burst)
}

// limitWrites is a huma middleware that rate limits requests by client IP.
// It responds 429 with a Retry-After header when the limit is exceeded.
func (s *Server) limitWrites(ctx huma.Context, next func(huma.Context)) {
	if s.writeLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.writeLimiter.Allow(key) {
		u := ctx.URL()
		s.logger.Warn("rate limit exceeded",
			"ip", key,
			"path", u.Path,
		)
		ctx.SetHeader("Retry-After", "60")
		if err := huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many requests", domainerrors.RateLimited("too many requests, try again in a minute")); err != nil {
			s.logger.Error("write rate limit response", "error", err)
		}
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address. chi's RealIP middleware
// has already replaced it with the forwarded client address when present.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
