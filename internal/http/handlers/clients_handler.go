package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/dto"
	"github.com/ignatzorin/freelance-flow/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-flow/internal/service"
)

// ClientsHandler обрабатывает форму добавления заказчика.
type ClientsHandler struct {
	registry *service.ClientRegistry
	notifier Notifier
}

// NewClientsHandler создаёт хэндлер.
func NewClientsHandler(registry *service.ClientRegistry, notifier Notifier) *ClientsHandler {
	return &ClientsHandler{registry: registry, notifier: notifier}
}

// Create обрабатывает POST /api/clients.
// Ответ всегда содержит состояние диалога и формы, чтобы фронт не терял ввод при ошибке.
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	form := service.ClientForm{
		Name:     req.Name,
		Platform: req.Platform,
		Status:   models.ClientStatus(strings.TrimSpace(req.Status)),
	}

	result, err := h.registry.AddClient(c.Request.Context(), common.CurrentScope(c), form)
	user, _ := common.CurrentUser(c)
	if result != nil {
		notify(h.notifier, user, result.Notification)
	}
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), dto.ClientDialogResponse{
			Error:           apperror.UserMessage(err, service.MsgClientAddFailed),
			AddClientResult: result,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.ClientDialogResponse{AddClientResult: result})
}
