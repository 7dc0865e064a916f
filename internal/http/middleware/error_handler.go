package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки, добавленные через c.Error, если ответ ещё не отправлен.
// Текст AppError показывается клиенту, остальные ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.HTTPStatus(err)

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request error")
		case apperror.IsValidation(err), apperror.IsUnauthorized(err):
			entry.Info("Request rejected")
		default:
			entry.Warn("Request error")
		}

		if c.Writer.Written() {
			return
		}

		message := "внутренняя ошибка сервера"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}

		c.JSON(status, gin.H{"error": message})
	}
}
