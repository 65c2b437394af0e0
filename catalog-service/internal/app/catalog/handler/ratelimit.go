package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/util"
	"gemcatalog/pkg/logger"
	"gemcatalog/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const serviceName = "catalog-service"

// RateLimitMiddleware ограничивает частоту запросов с одного IP
type RateLimitMiddleware struct {
	limiter util.RateLimiter
}

func NewRateLimitMiddleware(limiter util.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit разрешает limit запросов за window. Если Redis недоступен, запрос пропускается.
func (m *RateLimitMiddleware) Limit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := m.limiter.Allow(c.Request.Context(), name, c.ClientIP(), limit, window)
		if err != nil {
			logger.Warn().Err(err).Str("limiter", name).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(int(math.Ceil(result.ResetIn.Seconds()))))

		if !result.Allowed {
			metrics.HttpRateLimited.WithLabelValues(serviceName, name).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.ErrorResponse{Error: "Too many requests"})
			return
		}

		c.Next()
	}
}
