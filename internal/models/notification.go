package models

// NotificationLevel уровень транзиентного уведомления.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification короткое сообщение для пользователя об итоге действия.
// Уведомления не сохраняются: они возвращаются в ответе и рассылаются через WebSocket.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Success создаёт уведомление об успехе.
func Success(message string) *Notification {
	return &Notification{Level: NotificationSuccess, Message: message}
}

// Failure создаёт уведомление об ошибке.
func Failure(message string) *Notification {
	return &Notification{Level: NotificationError, Message: message}
}
