package handler

import (
	"errors"
	"net/http"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"
	"gemcatalog/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	binder      *Binder
	cookie      SessionCookie
}

func NewAuthHandler(authService service.AuthServiceInterface, binder *Binder, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		binder:      binder,
		cookie:      cookie,
	}
}

// Login обрабатывает POST /auth/login и выставляет cookie сессии
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := h.binder.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
		} else {
			metrics.AuthLogins.WithLabelValues("error").Inc()
		}
		respondError(c, err)
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	h.cookie.Set(c, result.Token)
	c.JSON(http.StatusOK, entity.OKResponse{OK: true})
}

// Me обрабатывает GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity := currentIdentity(c)
	if identity == nil {
		respondError(c, service.ErrUnauthenticated)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), identity.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.UserResponse{User: *user})
}

// Logout обрабатывает POST /auth/logout; без активной сессии тоже успешен
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.Clear(c)
	c.JSON(http.StatusOK, entity.OKResponse{OK: true})
}
