package servehttp

import (
	"cocina/common"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var placementLimiter = rate.NewLimiter(rate.Limit(placementRateFromEnv()), 2*placementRateFromEnv())

func placementRateFromEnv() int {
	if value := os.Getenv("ORDER_PLACEMENT_RATE"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 20
}

// PlacementRateLimitFilter sheds excess order placements before any work
// is done for them. Reads and kitchen operations are not limited.
func PlacementRateLimitFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !placementLimiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				&common.ErrorBody{Code: "common.too_many_requests", Message: "order placement rate limit exceeded"})
			return
		}
		c.Next()
	}
}
