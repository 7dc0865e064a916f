package models

// Имена таблиц, доступных через пользовательский scope.
const (
	TableClients   = "clients"
	TableProposals = "proposals"
)

// ClientStatus статус ответа заказчика.
type ClientStatus string

// ClientStatus константы статусов заказчиков
const (
	ClientStatusPending  ClientStatus = "pending"
	ClientStatusReplied  ClientStatus = "replied"
	ClientStatusRejected ClientStatus = "rejected"
)

// ClientStatuses перечисляет статусы в порядке отображения.
var ClientStatuses = []ClientStatus{
	ClientStatusReplied,
	ClientStatusPending,
	ClientStatusRejected,
}

// IsValid проверяет, что статус входит в перечисление.
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusPending, ClientStatusReplied, ClientStatusRejected:
		return true
	}
	return false
}

// Tone тон отклика.
type Tone string

// Tone константы тонов
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	TonePersuasive   Tone = "persuasive"
)

// IsValid проверяет, что тон входит в перечисление.
func (t Tone) IsValid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, TonePersuasive:
		return true
	}
	return false
}
