package handlers

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
)

// Notifier доставляет уведомление во все открытые WebSocket соединения пользователя.
type Notifier interface {
	Notify(userID uuid.UUID, notification *models.Notification) error
}

// notify дублирует уведомление из ответа в WebSocket. Анонимам и без хаба ничего не шлём.
func notify(n Notifier, user *models.User, notification *models.Notification) {
	if n == nil || user == nil || notification == nil {
		return
	}
	if err := n.Notify(user.ID, notification); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("handlers: не удалось разослать уведомление")
	}
}
