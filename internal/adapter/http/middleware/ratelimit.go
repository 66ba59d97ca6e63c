package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "simple-atm/internal/adapter/storage/redis"
	"simple-atm/pkg/apperror"
	"simple-atm/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Endpoint groups that carry their own limit.
const (
	GroupTelemetry  = "telemetry"
	GroupDeposit    = "deposit"
	GroupWithdraw   = "withdraw"
	GroupAdminLogin = "admin_login"
	GroupAdmin      = "admin"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the per-client limits for each endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupTelemetry:  {Limit: 120, Window: time.Minute},
		GroupDeposit:    {Limit: 30, Window: time.Minute},
		GroupWithdraw:   {Limit: 30, Window: time.Minute},
		GroupAdminLogin: {Limit: 5, Window: time.Minute},
		GroupAdmin:      {Limit: 30, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store failures let the request through.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", extractIdentifier(c), group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys admin routes by operator and everything else by IP.
func extractIdentifier(c *gin.Context) string {
	if sub := c.GetString(CtxAdminSubject); sub != "" {
		return "admin:" + sub
	}
	return c.ClientIP()
}
