package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/logger"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-flow/internal/validation"
)

// Тексты уведомлений списка заказчиков.
const (
	MsgFillAllFields      = "Please fill in all fields"
	MsgLoginToAddClients  = "Please log in to add clients"
	MsgClientAddFailed    = "Error adding client"
	MsgClientAdded        = "Client added successfully!"
	MsgClientsFetchFailed = "Error fetching clients"
	MsgNoClients          = "No clients yet. Add your first client to get started!"
	MsgInvalidStatus      = "Invalid client status"
	MsgClientFieldsLong   = "Client name or platform is too long"
)

// DateLayout формат даты в строках списка.
const DateLayout = "Jan 02, 2006"

// Визуальные категории статуса.
const (
	StatusTonePositive = "positive"
	StatusToneCaution  = "caution"
	StatusToneNegative = "negative"
	StatusToneNeutral  = "neutral"
)

// StatusTone сопоставляет статусу визуальную категорию.
func StatusTone(status models.ClientStatus) string {
	switch status {
	case models.ClientStatusReplied:
		return StatusTonePositive
	case models.ClientStatusPending:
		return StatusToneCaution
	case models.ClientStatusRejected:
		return StatusToneNegative
	default:
		return StatusToneNeutral
	}
}

// StatusLabel подпись статуса с заглавной буквы.
func StatusLabel(status models.ClientStatus) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ClientRow строка списка заказчиков.
type ClientRow struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Platform    string              `json:"platform"`
	Status      models.ClientStatus `json:"status"`
	StatusLabel string              `json:"status_label"`
	StatusTone  string              `json:"status_tone"`
	Date        time.Time           `json:"date"`
	DateLabel   string              `json:"date_label"`
}

// NewClientRow готовит заказчика к отображению.
func NewClientRow(c models.Client) ClientRow {
	return ClientRow{
		ID:          c.ID,
		Name:        c.Name,
		Platform:    c.Platform,
		Status:      c.Status,
		StatusLabel: StatusLabel(c.Status),
		StatusTone:  StatusTone(c.Status),
		Date:        c.Date,
		DateLabel:   c.Date.Format(DateLayout),
	}
}

// ClientsView содержимое страницы заказчиков.
type ClientsView struct {
	Clients      []ClientRow          `json:"clients"`
	EmptyMessage string               `json:"empty_message,omitempty"`
	Failed       bool                 `json:"failed"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// ClientForm поля диалога добавления заказчика.
type ClientForm struct {
	Name     string              `json:"name"`
	Platform string              `json:"platform"`
	Status   models.ClientStatus `json:"status"`
}

// EmptyClientForm форма после успешного добавления.
func EmptyClientForm() ClientForm {
	return ClientForm{Status: models.ClientStatusPending}
}

// AddClientResult итог добавления заказчика.
type AddClientResult struct {
	DialogOpen   bool                 `json:"dialog_open"`
	Form         ClientForm           `json:"form"`
	Notification *models.Notification `json:"notification"`
	List         *ClientsView         `json:"list,omitempty"`
}

// ClientRegistry ведёт список заказчиков пользователя.
type ClientRegistry struct{}

// NewClientRegistry создаёт реестр заказчиков.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{}
}

// ListClients возвращает заказчиков владельца scope, новые первыми.
// Ошибка хранилища не прерывает показ: список пуст, Failed выставлен.
func (r *ClientRegistry) ListClients(ctx context.Context, scope gateway.Scope) (*ClientsView, error) {
	if scope == nil {
		return nil, apperror.ErrUnauthorized
	}

	var clients []models.Client
	err := scope.QueryRows(ctx, models.TableClients, nil, &gateway.Order{Column: "date", Descending: true}, &clients)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": scope.UserID(),
			"error":   err.Error(),
		}).Error("client registry: не удалось загрузить заказчиков")

		return &ClientsView{
			Clients:      []ClientRow{},
			Failed:       true,
			Notification: models.Failure(MsgClientsFetchFailed),
		}, nil
	}

	view := &ClientsView{Clients: make([]ClientRow, 0, len(clients))}
	for _, c := range clients {
		view.Clients = append(view.Clients, NewClientRow(c))
	}
	if len(view.Clients) == 0 {
		view.EmptyMessage = MsgNoClients
	}

	return view, nil
}

// AddClient добавляет заказчика. При любой ошибке диалог остаётся открытым,
// а форма возвращается как была. После успеха список перечитывается заново.
func (r *ClientRegistry) AddClient(ctx context.Context, scope gateway.Scope, form ClientForm) (*AddClientResult, error) {
	failed := func(message string, err error) (*AddClientResult, error) {
		return &AddClientResult{
			DialogOpen:   true,
			Form:         form,
			Notification: models.Failure(message),
		}, err
	}

	name := strings.TrimSpace(form.Name)
	platform := strings.TrimSpace(form.Platform)
	if name == "" || platform == "" {
		return failed(MsgFillAllFields, apperror.New(apperror.ErrCodeValidation, MsgFillAllFields))
	}
	if scope == nil {
		return failed(MsgLoginToAddClients, apperror.New(apperror.ErrCodeUnauthorized, MsgLoginToAddClients))
	}
	if err := validation.ValidateClientFields(name, platform); err != nil {
		return failed(MsgClientFieldsLong, apperror.Wrap(err, apperror.ErrCodeValidation, MsgClientFieldsLong))
	}

	status := form.Status
	if status == "" {
		status = models.ClientStatusPending
	}
	if !status.IsValid() {
		return failed(MsgInvalidStatus, apperror.New(apperror.ErrCodeValidation, MsgInvalidStatus))
	}

	record := gateway.Record{
		"name":     name,
		"platform": platform,
		"status":   string(status),
	}
	if err := scope.InsertRow(ctx, models.TableClients, record, nil); err != nil {
		return failed(MsgClientAddFailed,
			apperror.Wrap(fmt.Errorf("client registry: add: %w", err), apperror.ErrCodeDatabaseError, MsgClientAddFailed))
	}

	list, err := r.ListClients(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &AddClientResult{
		DialogOpen:   false,
		Form:         EmptyClientForm(),
		Notification: models.Success(MsgClientAdded),
		List:         list,
	}, nil
}
