package handler

import (
	"net/http"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName - cookie с токеном сессии администратора
	SessionCookieName = "gc_auth"

	identityKey = "identity"
)

// SessionCookie выставляет и очищает cookie сессии
type SessionCookie struct {
	Secure bool
	TTL    time.Duration
}

// Set: httpOnly, SameSite=Lax, Secure в production, срок жизни равен сроку сессии
func (s SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

// Clear удаляет cookie; повторный вызов безопасен
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.Secure, true)
}

type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Identify определяет субъект по cookie сессии.
// Без cookie или с невалидным токеном запрос продолжается анонимно.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err == nil && token != "" {
			if identity := m.authService.Identify(token); identity != nil {
				c.Set(identityKey, identity)
			}
		}

		c.Next()
	}
}

// RequireRole пропускает только сессии с указанной ролью: без сессии 401, с другой ролью 403
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireRole(currentIdentity(c), role); err != nil {
			abortWithError(c, err)
			return
		}

		c.Next()
	}
}

func currentIdentity(c *gin.Context) *entity.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, _ := value.(*entity.Identity)
	return identity
}
