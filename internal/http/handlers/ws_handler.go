package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-flow/internal/http/middleware"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/service"
	"github.com/ignatzorin/freelance-flow/internal/ws"
)

// Имена экранов, которые можно смонтировать через WebSocket.
const (
	ViewDashboard = "dashboard"
	ViewStats     = "stats"
	ViewClients   = "clients"
)

// ViewLoaders связывает имена экранов с сервисами, которые их строят.
func ViewLoaders(dashboard *service.DashboardAggregator, stats *service.StatsAggregator, clients *service.ClientRegistry) ws.Loaders {
	return ws.Loaders{
		ViewDashboard: func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			v, err := dashboard.Load(ctx, scope)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		ViewStats: func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			v, err := stats.Load(ctx, scope)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		ViewClients: func(ctx context.Context, scope gateway.Scope) (interface{}, error) {
			v, err := clients.ListClients(ctx, scope)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	sessions middleware.SessionResolver
	loaders  ws.Loaders
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. Пустой allowedOrigins разрешает любой origin.
func NewWSHandler(hub *ws.Hub, sessions middleware.SessionResolver, loaders ws.Loaders, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:      hub,
		sessions: sessions,
		loaders:  loaders,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := common.AccessToken(c)
	if rawToken == "" {
		common.RespondUnauthorized(c, "access токен обязателен")
		return
	}

	user, err := h.sessions.CurrentUser(c.Request.Context(), rawToken)
	if err != nil {
		common.RespondError(c, http.StatusServiceUnavailable, "сервис авторизации недоступен")
		return
	}
	if user == nil {
		common.RespondUnauthorized(c, "сессия не найдена")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		logger.Log.WithField("error", err.Error()).Warn("ws: не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, h.sessions.Scope(user), h.loaders)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
