package models

import (
	"time"

	"github.com/google/uuid"
)

// Client описывает заказчика, которому фрилансер отправил отклик.
// Дата проставляется хранилищем при вставке и больше не меняется.
type Client struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	UserID   uuid.UUID    `db:"user_id" json:"user_id"`
	Name     string       `db:"name" json:"name"`
	Platform string       `db:"platform" json:"platform"`
	Status   ClientStatus `db:"status" json:"status"`
	Date     time.Time    `db:"date" json:"date"`
}
