package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "org-feed:"
	publishTimeout = 5 * time.Second
)

// envelope is what crosses Redis between instances.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    int64           `json:"at"`
}

func orgChannel(orgID uuid.UUID) string { return channelPrefix + orgID.String() }

func encodeEnvelope(event string, payload []byte, now time.Time) ([]byte, error) {
	if len(payload) == 0 {
		payload = []byte("null")
	}
	return json.Marshal(envelope{Event: event, Data: payload, At: now.Unix()})
}

func decodeEnvelope(raw string) (envelope, error) {
	var e envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, err
	}
	if e.Event == "" {
		return e, fmt.Errorf("envelope without event")
	}
	return e, nil
}

// RedisPubSub fans organization events out to every server instance.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates the Redis bridge used by Hub.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPubSub{client: client, logger: logger}
}

// PublishOrgEvent publishes on the organization's channel.
func (r *RedisPubSub) PublishOrgEvent(orgID uuid.UUID, event string, payload []byte) error {
	body, err := encodeEnvelope(event, payload, time.Now())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, orgChannel(orgID), body).Err()
}

// SubscribeOrg delivers every event on the organization's channel to handler
// until cancel is called.
func (r *RedisPubSub) SubscribeOrg(orgID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error) {
	ctx, stop := context.WithCancel(context.Background())
	sub := r.client.Subscribe(ctx, orgChannel(orgID))
	if _, err = sub.Receive(ctx); err != nil {
		stop()
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", orgID, err)
	}
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				e, err := decodeEnvelope(msg.Payload)
				if err != nil {
					r.logger.Debug("drop malformed org event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				handler(e.Event, e.Data)
			}
		}
	}()
	return stop, nil
}
