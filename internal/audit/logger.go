package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Log(ctx context.Context, event Event) error
}

// Logger mirrors audit events to zap and, when a sink is configured, to MongoDB.
// A nil *Logger is valid and drops everything.
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
}

// NewLogger creates an audit logger. sink may be nil.
func NewLogger(sink Sink, zapLog *zap.Logger) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{sink: sink, zapLog: zapLog}
}

// Record logs an event performed by actor. Persistence failures are logged, never returned.
func (l *Logger) Record(ctx context.Context, actor models.Principal, ip, category, eventType string, target uuid.UUID, details map[string]string) {
	if l == nil {
		return
	}
	event := Event{
		Timestamp:      time.Now().UTC(),
		OrganizationID: actor.OrganizationID.String(),
		Category:       category,
		EventType:      eventType,
		ActorID:        actor.UserID.String(),
		IP:             ip,
		Details:        details,
	}
	if target != uuid.Nil {
		event.TargetID = target.String()
	}
	l.logToZap(event)
	if l.sink == nil {
		return
	}
	if err := l.sink.Log(ctx, event); err != nil {
		l.zapLog.Warn("audit persist failed", zap.String("event_type", eventType), zap.Error(err))
	}
}

func (l *Logger) logToZap(event Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("organization_id", event.OrganizationID),
		zap.String("actor_id", event.ActorID),
	}
	if event.TargetID != "" {
		fields = append(fields, zap.String("target_id", event.TargetID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}
