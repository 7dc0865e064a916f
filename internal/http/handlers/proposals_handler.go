package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-flow/internal/dto"
	"github.com/ignatzorin/freelance-flow/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/service"
)

// ProposalsHandler генерирует, копирует и сохраняет отклики.
type ProposalsHandler struct {
	composer *service.ProposalComposer
	notifier Notifier
}

// NewProposalsHandler создаёт хэндлер.
func NewProposalsHandler(composer *service.ProposalComposer, notifier Notifier) *ProposalsHandler {
	return &ProposalsHandler{composer: composer, notifier: notifier}
}

// responseClipboard буфер обмена на стороне сервера: текст возвращается
// в ответе, а браузер кладёт его в системный буфер.
type responseClipboard struct {
	text string
}

func (r *responseClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.text = text
	return nil
}

// Generate обрабатывает POST /api/proposals/generate.
func (h *ProposalsHandler) Generate(c *gin.Context) {
	var req dto.GenerateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tone := models.Tone(req.Tone)
	if !tone.IsValid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:        service.MsgUnsupportedTone,
			Notification: models.Failure(service.MsgUnsupportedTone),
		})
		return
	}

	result, err := h.composer.Generate(req.JobDescription, tone)
	if err != nil {
		common.RespondFailure(c, err, service.MsgEnterJobDescription, result.Notification)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Copy обрабатывает POST /api/proposals/copy.
func (h *ProposalsHandler) Copy(c *gin.Context) {
	var req dto.CopyProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	clipboard := &responseClipboard{}
	result, err := h.composer.CopyToClipboard(c.Request.Context(), clipboard, req.Content)
	if err != nil {
		common.RespondFailure(c, err, service.MsgProposalCopyFailed, result.Notification)
		return
	}

	c.JSON(http.StatusOK, dto.CopyResponse{
		Clipboard:    clipboard.text,
		Notification: result.Notification,
	})
}

// Save обрабатывает POST /api/proposals. Анонимный запрос доходит до сервиса,
// чтобы пользователь получил просьбу войти.
func (h *ProposalsHandler) Save(c *gin.Context) {
	var req dto.SaveProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.composer.Save(c.Request.Context(), common.CurrentScope(c), service.SaveInput{
		Content:        req.Content,
		Tone:           models.Tone(req.Tone),
		JobDescription: req.JobDescription,
	})

	user, _ := common.CurrentUser(c)
	notify(h.notifier, user, result.Notification)

	if err != nil {
		common.RespondFailure(c, err, service.MsgProposalSaveFailed, result.Notification)
		return
	}

	c.JSON(http.StatusCreated, result)
}
