package dto

// RegisterRequest тело POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest тело POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AddClientRequest тело POST /api/clients. Пустые поля проверяет сервис,
// чтобы вернуть уведомление вместо ошибки биндинга.
type AddClientRequest struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Status   string `json:"status"`
}

// GenerateProposalRequest тело POST /api/proposals/generate.
type GenerateProposalRequest struct {
	JobDescription string `json:"job_description"`
	Tone           string `json:"tone" binding:"required"`
}

// CopyProposalRequest тело POST /api/proposals/copy.
type CopyProposalRequest struct {
	Content string `json:"content"`
}

// SaveProposalRequest тело POST /api/proposals: текст, который сейчас на экране.
// Поля проверяет сервис в порядке, в котором пользователь видит ошибки.
type SaveProposalRequest struct {
	Content        string `json:"content"`
	Tone           string `json:"tone"`
	JobDescription string `json:"job_description"`
}
