package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subtrackr/subtrackr/internal/app/service/assist"
	"github.com/subtrackr/subtrackr/pkg/response"
)

// AssistRateLimitMiddleware enforces the shared hourly budget for AI
// endpoints. Rate headers go out on every response so clients can pace
// themselves before hitting the wall.
func AssistRateLimitMiddleware(svc *assist.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}

		res := svc.CheckRateLimit(c.Request.Context(), id.OwnerID)
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := int64(time.Until(res.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorT(response.APIResponseCodeRateLimited, res))
			return
		}

		c.Next()
	}
}
