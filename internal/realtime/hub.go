package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Event names pushed to organization feeds.
const (
	EventAnnouncementCreated = "announcement.created"
	EventAnnouncementUpdated = "announcement.updated"
	EventAnnouncementDeleted = "announcement.deleted"
	EventHackathonCreated    = "hackathon.created"
	EventHackathonUpdated    = "hackathon.updated"
	EventHackathonDeleted    = "hackathon.deleted"
	EventTeamRegistered      = "team.registered"
	EventTeamUpdated         = "team.updated"
	EventTeamWithdrawn       = "team.withdrawn"
	EventRoleChanged         = "user.role_changed"
	EventSubmissionScored    = "submission.scored"
)

// Hub maintains organization_id -> set of connections and fans events out to them.
// With Redis configured every publish goes through the org channel so all
// instances deliver exactly once.
type Hub struct {
	rooms    map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func()
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishOrgEvent(orgID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to organization channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeOrg(orgID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub. Both Redis arguments may be nil for a single instance.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to its organization room. Starts the Redis subscription for the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.OrganizationID] == nil {
		h.rooms[c.OrganizationID] = make(map[string]*Client)
		if h.redisSub != nil {
			orgID := c.OrganizationID
			cancel, err := h.redisSub.SubscribeOrg(orgID, func(event string, payload []byte) {
				h.Broadcast(orgID, event, json.RawMessage(payload))
			})
			if err != nil {
				h.logger.Warn("redis subscribe failed", zap.String("organization_id", orgID.String()), zap.Error(err))
			} else {
				h.subs[orgID] = cancel
			}
		}
	}
	h.rooms[c.OrganizationID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client connected",
		zap.String("client_id", c.ID),
		zap.String("organization_id", c.OrganizationID.String()),
		zap.String("user_id", c.UserID.String()),
	)
}

// Unregister removes a client. Cancels the Redis subscription when the room empties.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.OrganizationID]; ok {
		if _, present := m[c.ID]; present {
			delete(m, c.ID)
			close(c.send)
		}
		if len(m) == 0 {
			delete(h.rooms, c.OrganizationID)
			if cancel, ok := h.subs[c.OrganizationID]; ok {
				cancel()
				delete(h.subs, c.OrganizationID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client disconnected", zap.String("client_id", c.ID), zap.String("organization_id", c.OrganizationID.String()))
}

// Broadcast sends a message to every local client in the organization.
func (h *Hub) Broadcast(orgID uuid.UUID, event string, payload interface{}) {
	data, err := encode(payload)
	if err != nil {
		h.logger.Warn("encode realtime payload", zap.String("event", event), zap.Error(err))
		return
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[orgID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Debug("client buffer full, dropping event", zap.String("client_id", c.ID), zap.String("event", event))
		}
	}
}

// Publish delivers an event to the organization across all instances. With
// Redis the subscriber callback performs the local broadcast.
func (h *Hub) Publish(orgID uuid.UUID, event string, payload interface{}) {
	if h.redis == nil {
		h.Broadcast(orgID, event, payload)
		return
	}
	data, err := encode(payload)
	if err != nil {
		h.logger.Warn("encode realtime payload", zap.String("event", event), zap.Error(err))
		return
	}
	if err := h.redis.PublishOrgEvent(orgID, event, data); err != nil {
		h.logger.Warn("redis publish failed, delivering locally", zap.String("event", event), zap.Error(err))
		h.Broadcast(orgID, event, json.RawMessage(data))
	}
}

// ConnectedCount returns the number of local connections for an organization.
func (h *Hub) ConnectedCount(orgID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[orgID])
}

func encode(payload interface{}) (json.RawMessage, error) {
	switch v := payload.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(payload)
	}
}
