package mail

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker server.
const (
	TypeContactEmail       = "email:contact"
	TypePasswordResetEmail = "email:password_reset"
)

const taskTimeout = 30 * time.Second

// ContactPayload carries a contact form submission to the admin mailbox.
type ContactPayload struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// PasswordResetPayload carries a reset link to the account owner.
type PasswordResetPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ResetURL string `json:"reset_url"`
}

// NewContactTask builds an email:contact task.
func NewContactTask(p ContactPayload) (*asynq.Task, error) {
	return newTask(TypeContactEmail, p)
}

// NewPasswordResetTask builds an email:password_reset task.
func NewPasswordResetTask(p PasswordResetPayload) (*asynq.Task, error) {
	return newTask(TypePasswordResetEmail, p)
}

// Delivery is attempted once; a failed send is logged by the worker and dropped.
func newTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data, asynq.MaxRetry(0), asynq.Timeout(taskTimeout)), nil
}
