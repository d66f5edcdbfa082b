package middleware

import (
	"fmt"
	"math"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/gin-gonic/gin"
)

func clientKey(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitErrorHandler(c *gin.Context, info ratelimit.Info) {
	retryAfter := math.Ceil(time.Until(info.ResetTime).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%.0f", retryAfter))
	message := "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String()
	response.ResponseError(c, &apperror.AppError{Message: message, Err: apperror.ErrRateLimitExceeded})
}

// RateLimit allows each client IP at most limit requests per second.
func RateLimit(limit uint) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: limit,
	})

	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitErrorHandler,
		KeyFunc:      clientKey,
	})
}
