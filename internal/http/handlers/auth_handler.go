package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/dto"
	"github.com/ignatzorin/freelance-flow/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-flow/internal/service"
	"github.com/ignatzorin/freelance-flow/internal/view"
)

// Authenticator регистрирует пользователей и выдаёт им токены.
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput, meta map[string]string) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput, meta map[string]string) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta map[string]string) (*service.TokenPair, error)
}

// SessionGateway проверяет и завершает сессии.
type SessionGateway interface {
	view.SessionChecker
	view.SignOuter
}

// AuthHandler предоставляет HTTP слой для регистрации, логина и сессий.
type AuthHandler struct {
	auth     Authenticator
	sessions SessionGateway
	notifier Notifier
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth Authenticator, sessions SessionGateway, notifier Notifier) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, notifier: notifier}
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	}, common.RequestMeta(c))
	if err != nil {
		common.RespondFailure(c, err, "не удалось зарегистрироваться", nil)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{User: result.User, Tokens: result.TokenPair})
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, common.RequestMeta(c))
	if err != nil {
		common.RespondFailure(c, err, "не удалось войти", nil)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{User: result.User, Tokens: result.TokenPair})
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tokenPair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, common.RequestMeta(c))
	if err != nil {
		common.RespondFailure(c, err, "не удалось обновить сессию", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokenPair})
}

// Session обрабатывает GET /api/auth/session. Работает и без токена.
func (h *AuthHandler) Session(c *gin.Context) {
	ok, err := h.sessions.GetSession(c.Request.Context(), common.AccessToken(c))
	if err != nil {
		common.RespondError(c, http.StatusServiceUnavailable, "сервис авторизации недоступен")
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{Authenticated: ok})
}

// Me обрабатывает GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := common.CurrentUser(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout обрабатывает POST /api/auth/logout. При ошибке сессия остаётся активной.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, _ := common.CurrentUser(c)

	result, err := view.Logout(c.Request.Context(), h.sessions, common.AccessToken(c))
	if err != nil {
		common.RespondFailure(c, err, view.MsgLogoutFailed, result.Notification)
		return
	}

	notify(h.notifier, user, result.Notification)
	c.JSON(http.StatusOK, result)
}
