package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

// Context ключи для gin.Context.
const (
	ContextUserKey  = "user"
	ContextScopeKey = "scope"
	ContextTokenKey = "accessToken"
)

// SessionResolver определяет пользователя по access токену.
type SessionResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	Scope(user *models.User) gateway.Scope
}

// AuthMiddleware требует активную сессию и кладёт пользователя и его scope в контекст.
func AuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolve(c, sessions) {
			return
		}
		if _, ok := c.Get(ContextUserKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware как AuthMiddleware, но пропускает запросы без сессии.
// Обработчик сам решает, что ответить анониму.
func OptionalAuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolve(c, sessions) {
			return
		}
		c.Next()
	}
}

// resolve возвращает false, если запрос уже прерван.
func resolve(c *gin.Context, sessions SessionResolver) bool {
	token := AccessToken(c)
	c.Set(ContextTokenKey, token)
	if token == "" {
		return true
	}

	user, err := sessions.CurrentUser(c.Request.Context(), token)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"error": err.Error(),
			"path":  c.Request.URL.Path,
		}).Error("auth middleware: не удалось проверить сессию")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "сервис авторизации недоступен"})
		return false
	}
	if user == nil {
		return true
	}

	c.Set(ContextUserKey, user)
	c.Set(ContextScopeKey, sessions.Scope(user))
	return true
}

// AccessToken достаёт токен из заголовка Authorization или параметра token (для WebSocket).
func AccessToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}
