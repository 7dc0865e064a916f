package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal описывает сохранённый текст отклика.
type Proposal struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Content        string    `db:"content" json:"content"`
	Tone           Tone      `db:"tone" json:"tone"`
	JobDescription string    `db:"job_description" json:"job_description"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
