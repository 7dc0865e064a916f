package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/freelance-flow/internal/gateway"
	"github.com/ignatzorin/freelance-flow/internal/models"
	"github.com/ignatzorin/freelance-flow/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-flow/internal/validation"
)

// Тексты уведомлений генератора откликов.
const (
	MsgEnterJobDescription = "Please enter a job description"
	MsgProposalGenerated   = "Proposal generated successfully!"
	MsgProposalCopied      = "Proposal copied to clipboard!"
	MsgProposalCopyFailed  = "Error copying proposal"
	MsgNoProposalToSave    = "No proposal to save"
	MsgLoginToSave         = "Please log in to save proposals"
	MsgProposalSaveFailed  = "Error saving proposal"
	MsgProposalSaved       = "Proposal saved successfully!"
	MsgUnsupportedTone     = "Unsupported tone"
	MsgJobDescriptionLong  = "Job description is too long"
	MsgProposalTooLong     = "Proposal is too long"
)

// toneOpenings первая фраза отклика для каждого тона.
var toneOpenings = map[models.Tone]string{
	models.ToneProfessional: "I am writing to express my strong interest in your project",
	models.ToneFriendly:     "Hi there! I'm really excited about the opportunity to work on your project",
	models.TonePersuasive:   "Your project caught my attention because it aligns perfectly with my expertise",
}

const proposalBody = "I bring extensive experience in delivering high-quality solutions that exceed client expectations. " +
	"My approach combines technical excellence with clear communication, ensuring your project succeeds.\n\n" +
	"Key deliverables:\n" +
	"• Complete project implementation\n" +
	"• Regular progress updates\n" +
	"• Quality assurance and testing\n" +
	"• Post-delivery support\n\n" +
	"I'm confident I can deliver exceptional results for your project. " +
	"Let's discuss how we can work together to bring your vision to life.\n\n" +
	"Best regards"

// Clipboard принимает скопированный текст.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ComposeResult итог действия генератора; Notification есть всегда.
type ComposeResult struct {
	Proposal     string               `json:"proposal,omitempty"`
	Notification *models.Notification `json:"notification"`
}

// ProposalComposer собирает текст отклика по шаблону, копирует и сохраняет его.
// Состояния не хранит.
type ProposalComposer struct{}

// NewProposalComposer создаёт генератор откликов.
func NewProposalComposer() *ProposalComposer {
	return &ProposalComposer{}
}

// Compose возвращает текст отклика. Описание вставляется без изменений.
func Compose(jobDescription string, tone models.Tone) (string, error) {
	opening, ok := toneOpenings[tone]
	if !ok {
		return "", apperror.New(apperror.ErrCodeValidation, MsgUnsupportedTone)
	}
	if validation.IsBlank(jobDescription) {
		return "", apperror.New(apperror.ErrCodeValidation, MsgEnterJobDescription)
	}

	return opening + ". Based on your requirements:\n\n" + jobDescription + "\n\n" + proposalBody, nil
}

// Generate собирает отклик и уведомление о результате.
func (c *ProposalComposer) Generate(jobDescription string, tone models.Tone) (*ComposeResult, error) {
	if validation.IsBlank(jobDescription) {
		return &ComposeResult{Notification: models.Failure(MsgEnterJobDescription)},
			apperror.New(apperror.ErrCodeValidation, MsgEnterJobDescription)
	}
	if err := validation.ValidateJobDescription(jobDescription); err != nil {
		return &ComposeResult{Notification: models.Failure(MsgJobDescriptionLong)},
			apperror.Wrap(err, apperror.ErrCodeValidation, MsgJobDescriptionLong)
	}

	proposal, err := Compose(jobDescription, tone)
	if err != nil {
		return &ComposeResult{Notification: models.Failure(apperror.UserMessage(err, MsgEnterJobDescription))}, err
	}

	return &ComposeResult{
		Proposal:     proposal,
		Notification: models.Success(MsgProposalGenerated),
	}, nil
}

// CopyToClipboard передаёт текст в буфер обмена.
func (c *ProposalComposer) CopyToClipboard(ctx context.Context, clipboard Clipboard, text string) (*ComposeResult, error) {
	if err := clipboard.WriteText(ctx, text); err != nil {
		return &ComposeResult{Notification: models.Failure(MsgProposalCopyFailed)},
			apperror.Wrap(err, apperror.ErrCodeInternal, MsgProposalCopyFailed)
	}

	return &ComposeResult{
		Proposal:     text,
		Notification: models.Success(MsgProposalCopied),
	}, nil
}

// SaveInput текст, который сейчас видит пользователь, и параметры генерации.
type SaveInput struct {
	Content        string
	Tone           models.Tone
	JobDescription string
}

// Save сохраняет отклик от имени владельца scope. Пустой текст и отсутствие
// пользователя проверяются до обращения к хранилищу.
func (c *ProposalComposer) Save(ctx context.Context, scope gateway.Scope, in SaveInput) (*ComposeResult, error) {
	if in.Content == "" {
		return &ComposeResult{Notification: models.Failure(MsgNoProposalToSave)},
			apperror.New(apperror.ErrCodeValidation, MsgNoProposalToSave)
	}
	if scope == nil {
		return &ComposeResult{Notification: models.Failure(MsgLoginToSave)},
			apperror.New(apperror.ErrCodeUnauthorized, MsgLoginToSave)
	}
	if !in.Tone.IsValid() {
		return &ComposeResult{Notification: models.Failure(MsgUnsupportedTone)},
			apperror.New(apperror.ErrCodeValidation, MsgUnsupportedTone)
	}
	if err := validation.ValidateProposalContent(in.Content); err != nil {
		return &ComposeResult{Notification: models.Failure(MsgProposalTooLong)},
			apperror.Wrap(err, apperror.ErrCodeValidation, MsgProposalTooLong)
	}

	record := gateway.Record{
		"content":         in.Content,
		"tone":            string(in.Tone),
		"job_description": in.JobDescription,
	}

	if err := scope.InsertRow(ctx, models.TableProposals, record, nil); err != nil {
		return &ComposeResult{Notification: models.Failure(MsgProposalSaveFailed)},
			apperror.Wrap(fmt.Errorf("composer: save: %w", err), apperror.ErrCodeDatabaseError, MsgProposalSaveFailed)
	}

	return &ComposeResult{
		Proposal:     in.Content,
		Notification: models.Success(MsgProposalSaved),
	}, nil
}
