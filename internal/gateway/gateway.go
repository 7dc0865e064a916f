// Package gateway связывает токены доступа с сессиями и выдаёт
// пользовательский scope для работы с данными.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-flow/internal/repository"
)

// AccessParser разбирает access токен.
type AccessParser interface {
	ParseAccess(token string) (userID uuid.UUID, sessionID uuid.UUID, err error)
}

// SessionStore хранилище пользователей и сессий.
type SessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	DeleteSessionByID(ctx context.Context, sessionID uuid.UUID) error
}

// Gateway отвечает на вопрос "кто сейчас вошёл" и завершает сессии.
type Gateway struct {
	tokens   AccessParser
	sessions SessionStore
	rows     RowStore
	now      func() time.Time
}

// New создаёт Gateway.
func New(tokens AccessParser, sessions SessionStore, rows RowStore) *Gateway {
	return &Gateway{
		tokens:   tokens,
		sessions: sessions,
		rows:     rows,
		now:      time.Now,
	}
}

// CurrentUser возвращает пользователя активной сессии.
// Отсутствие сессии (пустой, невалидный или истёкший токен, удалённая сессия,
// удалённый пользователь) даёт nil без ошибки; ошибка означает сбой хранилища.
func (g *Gateway) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	user, _, err := g.resolve(ctx, accessToken)
	return user, err
}

// GetSession сообщает, есть ли активная сессия.
func (g *Gateway) GetSession(ctx context.Context, accessToken string) (bool, error) {
	user, _, err := g.resolve(ctx, accessToken)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// SignOut завершает сессию, к которой привязан токен.
// При ошибке сессия остаётся действующей.
func (g *Gateway) SignOut(ctx context.Context, accessToken string) error {
	user, session, err := g.resolve(ctx, accessToken)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrUnauthorized
	}

	if err := g.sessions.DeleteSessionByID(ctx, session.ID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("gateway: sign out: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":    user.ID,
		"session_id": session.ID,
	}).Info("gateway: сессия завершена")

	return nil
}

// Scope возвращает доступ к данным пользователя; для nil пользователя возвращает nil.
func (g *Gateway) Scope(user *models.User) Scope {
	if user == nil {
		return nil
	}
	return NewScope(user.ID, g.rows)
}

func (g *Gateway) resolve(ctx context.Context, accessToken string) (*models.User, *models.Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, nil, nil
	}

	userID, sessionID, err := g.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, nil, nil
	}

	session, err := g.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("gateway: load session: %w", err)
	}
	if session.UserID != userID || session.Expired(g.now()) {
		return nil, nil, nil
	}

	user, err := g.sessions.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("gateway: load user: %w", err)
	}

	return user, session, nil
}
