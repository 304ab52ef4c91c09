package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const (
	TaskConfirmationMail = "mail:confirmation"

	mailTimeout = 30 * time.Second
)

// MailDispatcher queues mail so it's sent after the response is written.
// Delivery is not reported back to the caller.
type MailDispatcher interface {
	Dispatch(ctx context.Context, m ConfirmationMail) error
	Close() error
}

// LocalMailQueue sends mail from goroutines inside the API process
type LocalMailQueue struct {
	mailer Mailer
	wg     conc.WaitGroup
}

func NewLocalMailQueue(m Mailer) *LocalMailQueue {
	return &LocalMailQueue{mailer: m}
}

func (q *LocalMailQueue) Dispatch(_ context.Context, m ConfirmationMail) error {
	q.wg.Go(func() {
		// The request context is gone by the time this runs
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := q.mailer.SendConfirmation(ctx, m); err != nil {
			zap.L().Error("Failed to send confirmation mail", zap.String("to", m.Email), zap.Error(err))
		}
	})

	return nil
}

// Close waits for in-flight mail
func (q *LocalMailQueue) Close() error {
	q.wg.Wait()
	return nil
}

// AsynqMailQueue pushes mail to Redis where a MailWorker picks it up
type AsynqMailQueue struct {
	client *asynq.Client
}

func NewAsynqMailQueue(opt asynq.RedisConnOpt) *AsynqMailQueue {
	return &AsynqMailQueue{client: asynq.NewClient(opt)}
}

func NewConfirmationMailTask(m ConfirmationMail) (*asynq.Task, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mail task, %w", err)
	}

	return asynq.NewTask(TaskConfirmationMail, payload, asynq.MaxRetry(5), asynq.Timeout(mailTimeout)), nil
}

func (q *AsynqMailQueue) Dispatch(ctx context.Context, m ConfirmationMail) error {
	task, err := NewConfirmationMailTask(m)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue mail task, %w", err)
	}

	zap.L().Debug("Queued confirmation mail", zap.String("task_id", info.ID))
	return nil
}

func (q *AsynqMailQueue) Close() error {
	return q.client.Close()
}

// HandleConfirmationMailTask sends the mail described by an asynq task
func HandleConfirmationMailTask(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var m ConfirmationMail
		if err := json.Unmarshal(t.Payload(), &m); err != nil {
			// Retrying won't fix a broken payload
			return fmt.Errorf("failed to decode mail task, %v, %w", err, asynq.SkipRetry)
		}

		return mailer.SendConfirmation(ctx, m)
	}
}

// MailWorker consumes queued mail
type MailWorker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewMailWorker(opt asynq.RedisConnOpt, mailer Mailer) *MailWorker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Logger:      zap.S(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskConfirmationMail, HandleConfirmationMailTask(mailer))

	return &MailWorker{srv: srv, mux: mux}
}

func (w *MailWorker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start mail worker, %w", err)
	}

	zap.L().Debug("Mail worker started")
	return nil
}

func (w *MailWorker) Shutdown() {
	w.srv.Shutdown()
}
