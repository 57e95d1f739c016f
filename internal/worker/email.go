package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/pkg/mailer"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/queue"
)

// JobSource is the queue side the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context, keys ...string) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job, cause error) error
}

// EmailProcessor delivers queued email jobs.
type EmailProcessor struct {
	sender mailer.Sender
	queue  JobSource
	logger *zap.Logger
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(sender mailer.Sender, q JobSource, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{sender: sender, queue: q, logger: logger}
}

// Process executes one email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.RecipientEmail == "" {
		p.logger.Warn("email job without recipient dropped", zap.String("job_id", job.ID))
		return nil
	}
	if err := p.sender.Send(ctx, mailer.Message{
		To:      payload.RecipientEmail,
		Subject: payload.Subject,
		Text:    payload.BodyText,
	}); err != nil {
		return err
	}
	p.logger.Info("email job completed",
		zap.String("job_id", job.ID),
		zap.String("email_type", payload.EmailType),
		zap.String("organization_id", payload.OrganizationID.String()),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, queue.QueueEmails)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			sleep(ctx, queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job, err); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			sleep(ctx, queue.RetryBackoff)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
