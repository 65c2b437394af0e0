package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"

	"github.com/gin-gonic/gin"
)

// HealthCheck проверяет доступность одной зависимости
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness обрабатывает GET /healthz и /health
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, entity.HealthResponse{OK: true, TS: time.Now().UTC()})
}

// Readiness обрабатывает GET /health/readiness: 503, если хотя бы одна зависимость недоступна
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := entity.ReadinessResponse{
		OK:     true,
		TS:     time.Now().UTC(),
		Checks: make(map[string]string, len(names)),
	}

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			response.Checks[name] = "unhealthy"
			response.OK = false
			_ = c.Error(err)
			continue
		}
		response.Checks[name] = "healthy"
	}

	status := http.StatusOK
	if !response.OK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
