package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/dto"
	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/http/middleware"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
)

// ErrUserNotFound is returned when user is not found in context
var ErrUserNotFound = errors.New("пользователь не найден в контексте")

// CurrentUser извлекает пользователя, положенного auth middleware.
func CurrentUser(c *gin.Context) (*models.User, error) {
	raw, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, ErrUserNotFound
	}

	user, ok := raw.(*models.User)
	if !ok || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// CurrentScope возвращает scope пользователя или nil для анонимного запроса.
func CurrentScope(c *gin.Context) gateway.Scope {
	raw, exists := c.Get(middleware.ContextScopeKey)
	if !exists {
		return nil
	}
	scope, _ := raw.(gateway.Scope)
	return scope
}

// AccessToken токен текущего запроса.
func AccessToken(c *gin.Context) string {
	if token := c.GetString(middleware.ContextTokenKey); token != "" {
		return token
	}
	return middleware.AccessToken(c)
}

// RequestMeta данные клиента, которые сохраняются вместе с сессией.
func RequestMeta(c *gin.Context) map[string]string {
	return map[string]string{
		"user_agent": c.GetHeader("User-Agent"),
		"ip":         c.ClientIP(),
	}
}

// RespondError sends a standardized error response
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondFailure отвечает статусом ошибки сервиса и уведомлением для пользователя.
// Если уведомления нет, оно строится из текста ошибки.
func RespondFailure(c *gin.Context, err error, fallback string, notification *models.Notification) {
	message := apperror.UserMessage(err, fallback)
	if notification == nil {
		notification = models.Failure(message)
	}
	c.JSON(apperror.HTTPStatus(err), dto.ErrorResponse{
		Error:        message,
		Notification: notification,
	})
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}
