package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"flarecover/internal/domain"
)

// enforceRateLimit applies the per-client fixed window to one route. It
// returns false when the request has already been answered.
func (s *Server) enforceRateLimit(c *gin.Context, routeID string) bool {
	if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
		return true
	}
	key := fmt.Sprintf("addr:%s:endpoint:%s", c.ClientIP(), routeID)
	decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		if s.rateLimitFailClosed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
			return false
		}
		if s.logger != nil {
			s.logger.Warn("rate limiter unavailable, failing open", "error", err)
		}
		return true
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		if !decision.ResetAt.IsZero() {
			if secs := int(time.Until(decision.ResetAt).Seconds()); secs > 0 {
				c.Header("Retry-After", strconv.Itoa(secs))
			}
		}
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}
