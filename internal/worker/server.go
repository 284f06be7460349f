package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"eagle/internal/mail"
)

// Server wraps the asynq worker server that delivers queued email.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    zerolog.Logger
}

// NewServer creates a Server consuming the mail task types.
func NewServer(redisOpt asynq.RedisClientOpt, concurrency int, handler *MailHandler, log zerolog.Logger) *Server {
	logger := log.With().Str("component", "worker_server").Logger()

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			taskID := ""
			if rw := task.ResultWriter(); rw != nil {
				taskID = rw.TaskID()
			}
			logger.Error().Err(err).Str("task_id", taskID).Str("task_type", task.Type()).Msg("task failed")
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(mail.TypeContactEmail, handler.ProcessContact)
	mux.HandleFunc(mail.TypePasswordResetEmail, handler.ProcessPasswordReset)

	return &Server{server: server, mux: mux, log: logger}
}

// Start runs the worker until Shutdown is called. Call it in its own goroutine.
func (s *Server) Start() {
	s.log.Info().Msg("worker server starting")
	if err := s.server.Run(s.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
		s.log.Error().Err(err).Msg("worker server stopped unexpectedly")
		return
	}
	s.log.Info().Msg("worker server stopped")
}

// Shutdown waits for in-flight tasks and stops the worker.
func (s *Server) Shutdown() {
	s.server.Shutdown()
}
