package mail

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"eagle/internal/metrics"
	"eagle/internal/model"
)

// Notifier schedules outgoing email.
type Notifier interface {
	NotifyContact(ctx context.Context, msg *model.ContactMessage) error
	SendPasswordReset(ctx context.Context, user *model.User, token string) error
}

// Enqueuer is the subset of *asynq.Client used by Queue.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue is a Notifier that hands email off to the asynq worker.
type Queue struct {
	client       Enqueuer
	resetURLBase string
	log          zerolog.Logger
}

var _ Notifier = (*Queue)(nil)

// NewQueue creates a Queue. resetURLBase is the front-end page that accepts ?token=.
func NewQueue(client Enqueuer, resetURLBase string, log zerolog.Logger) *Queue {
	return &Queue{
		client:       client,
		resetURLBase: resetURLBase,
		log:          log.With().Str("component", "mail_queue").Logger(),
	}
}

// NotifyContact queues the admin notification for a stored contact message.
func (q *Queue) NotifyContact(ctx context.Context, msg *model.ContactMessage) error {
	task, err := NewContactTask(ContactPayload{
		MessageID: msg.ID.String(),
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
	})
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task)
}

// SendPasswordReset queues a reset link for the user.
func (q *Queue) SendPasswordReset(ctx context.Context, user *model.User, token string) error {
	task, err := NewPasswordResetTask(PasswordResetPayload{
		Email:    user.Email,
		Username: user.Username,
		ResetURL: q.resetURLBase + "?token=" + url.QueryEscape(token),
	})
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task)
}

func (q *Queue) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		metrics.RecordEmail(task.Type(), "enqueue_failed")
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	metrics.RecordEmail(task.Type(), "queued")
	q.log.Debug().Str("task_id", info.ID).Str("task_type", task.Type()).Msg("email queued")
	return nil
}
