package handler

import (
	"errors"
	"net/http"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

// respondError переводит ошибку сервиса в HTTP-ответ.
// Детали внутренних ошибок клиенту не отдаются, только в c.Errors для access-лога.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "ValidationError",
			Details: validationErr.Issues,
		})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "ValidationError"})
	case errors.Is(err, ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: "Payload too large"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Unauthenticated"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Conflict"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal server error"})
	}
}

// abortWithError - respondError для middleware
func abortWithError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}
