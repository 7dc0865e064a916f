package dto

import (
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/service"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error        string               `json:"error"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// AuthResponse ответ регистрации и входа.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// SessionResponse ответ GET /api/auth/session.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// CopyResponse ответ копирования: текст для буфера обмена и уведомление.
type CopyResponse struct {
	Clipboard    string               `json:"clipboard"`
	Notification *models.Notification `json:"notification"`
}

// ClientDialogResponse ответ формы добавления заказчика: состояние диалога,
// форма, уведомление и (при успехе) свежий список.
type ClientDialogResponse struct {
	Error string `json:"error,omitempty"`
	*service.AddClientResult
}
