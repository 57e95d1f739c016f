// Package mailer sends transactional email.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

// Message is one outgoing plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	mg     mailgun.Mailgun
	from   string
	logger *zap.Logger
}

// NewMailgun creates a Mailgun sender. euRegion selects the EU API base.
func NewMailgun(domain, apiKey, from string, euRegion bool, logger *zap.Logger) *Mailgun {
	mg := mailgun.NewMailgun(domain, apiKey)
	if euRegion {
		mg.SetAPIBase(mailgun.APIBaseEU)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailgun{mg: mg, from: from, logger: logger}
}

// Send delivers m, bounded by a 30s timeout.
func (s *Mailgun) Send(ctx context.Context, m Message) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg := s.mg.NewMessage(s.from, m.Subject, m.Text, m.To)
	_, id, err := s.mg.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	s.logger.Info("email sent", zap.String("to", m.To), zap.String("mailgun_id", id))
	return nil
}

// LogSender writes messages to the log. Used when no Mailgun key is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a logging sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs m.
func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.logger.Info("email (not sent, mailgun disabled)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.Int("body_bytes", len(m.Text)),
	)
	return nil
}

// New returns a Mailgun sender when domain and apiKey are both set, and a
// LogSender otherwise.
func New(domain, apiKey, from string, euRegion bool, logger *zap.Logger) Sender {
	if domain == "" || apiKey == "" {
		return NewLogSender(logger)
	}
	return NewMailgun(domain, apiKey, from, euRegion, logger)
}
