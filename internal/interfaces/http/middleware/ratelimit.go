package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nrjbutsecond/tessera/internal/infrastructure/ratelimit"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
	"github.com/nrjbutsecond/tessera/internal/shared/utils"
)

// RateLimiter throttles high-churn endpoints per client IP. Reservation
// storms during popular on-sales are the main target; the scan endpoint gets
// a separate, looser budget keyed by scanner id.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, log logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: log}
}

// LimitByIP enforces the given per-window budgets keyed by client IP.
func (rl *RateLimiter) LimitByIP(scope string, cfg ratelimit.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
		rl.enforce(c, key, cfg)
	}
}

// LimitByScanner enforces budgets keyed by the authenticated scanner id set
// by ScannerAuth. Falls back to client IP when unauthenticated.
func (rl *RateLimiter) LimitByScanner(scope string, cfg ratelimit.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())
		if scannerID, exists := c.Get("scanner_id"); exists {
			key = fmt.Sprintf("%s:scanner:%v", scope, scannerID)
		}
		rl.enforce(c, key, cfg)
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, key string, cfg ratelimit.RateLimitConfig) {
	allowed, err := rl.limiter.Allow(c.Request.Context(), key, cfg)
	if err != nil {
		// Redis being down must not take ticket sales down with it.
		rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err)
		c.Next()
		return
	}

	if !allowed {
		utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
		c.Abort()
		return
	}

	c.Next()
}
