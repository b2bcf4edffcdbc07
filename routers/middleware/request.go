package middleware

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	u "github.com/paycrest/bridge-wallet/utils"
)

// RateLimitMiddleware limits requests per client IP to limit per second
func RateLimitMiddleware(limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = 1
	}

	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: uint(limit),
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			u.APIResponse(
				c,
				http.StatusTooManyRequests,
				"error",
				"Too many requests from this IP address. Please retry shortly.",
				map[string]interface{}{
					"retry_after": time.Until(info.ResetTime).Seconds(),
					"limit":       info.Limit,
				},
			)
			c.Abort()
		},
		KeyFunc: func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		},
	})
}
