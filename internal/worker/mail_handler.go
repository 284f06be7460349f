package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"eagle/internal/mail"
	"eagle/internal/metrics"
)

// MailHandler renders and sends queued email tasks.
type MailHandler struct {
	sender     mail.Sender
	adminEmail string
	log        zerolog.Logger
}

// NewMailHandler creates a MailHandler. Contact notifications go to adminEmail.
func NewMailHandler(sender mail.Sender, adminEmail string, log zerolog.Logger) *MailHandler {
	return &MailHandler{
		sender:     sender,
		adminEmail: adminEmail,
		log:        log.With().Str("component", "mail_handler").Logger(),
	}
}

// ProcessContact handles email:contact.
func (h *MailHandler) ProcessContact(ctx context.Context, t *asynq.Task) error {
	var p mail.ContactPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal contact payload: %v: %w", err, asynq.SkipRetry)
	}
	if h.adminEmail == "" {
		h.log.Warn().Str("message_id", p.MessageID).Msg("ADMIN_EMAIL not set, contact notification dropped")
		metrics.RecordEmail(t.Type(), "dropped")
		return nil
	}

	subject, body := mail.ContactEmail(p)
	return h.deliver(ctx, t.Type(), h.adminEmail, subject, body)
}

// ProcessPasswordReset handles email:password_reset.
func (h *MailHandler) ProcessPasswordReset(ctx context.Context, t *asynq.Task) error {
	var p mail.PasswordResetPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal password reset payload: %v: %w", err, asynq.SkipRetry)
	}

	subject, body := mail.PasswordResetEmail(p)
	return h.deliver(ctx, t.Type(), p.Email, subject, body)
}

func (h *MailHandler) deliver(ctx context.Context, taskType, to, subject, body string) error {
	if err := h.sender.Send(ctx, to, subject, body); err != nil {
		metrics.RecordEmail(taskType, "failed")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	metrics.RecordEmail(taskType, "sent")
	h.log.Info().Str("task_type", taskType).Str("to", to).Msg("email sent")
	return nil
}
