package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-flow/internal/service"
	"github.com/ignatzorin/freelance-flow/internal/view"
)

// ViewsHandler отдаёт данные экранов. Каждый запрос заново читает хранилище.
type ViewsHandler struct {
	sessions  view.SessionChecker
	dashboard *service.DashboardAggregator
	stats     *service.StatsAggregator
	clients   *service.ClientRegistry
}

// NewViewsHandler создаёт хэндлер экранов.
func NewViewsHandler(
	sessions view.SessionChecker,
	dashboard *service.DashboardAggregator,
	stats *service.StatsAggregator,
	clients *service.ClientRegistry,
) *ViewsHandler {
	return &ViewsHandler{
		sessions:  sessions,
		dashboard: dashboard,
		stats:     stats,
		clients:   clients,
	}
}

// Landing обрабатывает GET /api/views/landing.
func (h *ViewsHandler) Landing(c *gin.Context) {
	c.JSON(http.StatusOK, view.Landing(c.Request.Context(), h.sessions, common.AccessToken(c)))
}

// Navigation обрабатывает GET /api/views/navigation?route=&collapsed=.
func (h *ViewsHandler) Navigation(c *gin.Context) {
	collapsed := false
	if raw := c.Query("collapsed"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			common.RespondBadRequest(c, "параметр collapsed должен быть true или false")
			return
		}
		collapsed = parsed
	}

	c.JSON(http.StatusOK, view.Navigation(c.DefaultQuery("route", view.RouteDashboard), collapsed))
}

// Dashboard обрабатывает GET /api/views/dashboard.
func (h *ViewsHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboard.Load(c.Request.Context(), common.CurrentScope(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats обрабатывает GET /api/views/stats.
func (h *ViewsHandler) Stats(c *gin.Context) {
	result, err := h.stats.Load(c.Request.Context(), common.CurrentScope(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Clients обрабатывает GET /api/views/clients.
func (h *ViewsHandler) Clients(c *gin.Context) {
	result, err := h.clients.ListClients(c.Request.Context(), common.CurrentScope(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
