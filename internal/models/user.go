package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает учётную запись фрилансера.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session представляет сохранённую сессию пользователя.
// Access токен ссылается на сессию по ID, поэтому удаление строки завершает сессию.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Expired сообщает, истёк ли срок действия сессии.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
