package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/srbmaury-team/Hackathon-Portal/internal/auth"
	"github.com/srbmaury-team/Hackathon-Portal/internal/middleware"
	"github.com/srbmaury-team/Hackathon-Portal/internal/models"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/errs"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/response"
)

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client represents a single WebSocket connection subscribed to an organization feed.
type Client struct {
	ID             string
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           models.Role
	hub            *Hub
	conn           *websocket.Conn
	send           chan WSMessage
	logger         *zap.Logger
}

// TokenValidator validates the token passed on the upgrade request.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// ServeWs handles the WebSocket upgrade. Browsers cannot set headers on the
// upgrade request, so the bearer token travels in ?token=.
func ServeWs(hub *Hub, tokens TokenValidator, allowedOrigins string, logger *zap.Logger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(middleware.ParseOrigins(allowedOrigins)),
	}
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Error(c, errs.ErrUnauthenticated.WithDetail("token required"), "ws.failed")
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			response.Error(c, errs.ErrInvalidToken, "ws.failed")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:             uuid.New().String(),
			OrganizationID: claims.OrganizationID,
			UserID:         claims.UserID,
			Role:           claims.Role,
			hub:            hub,
			conn:           conn,
			send:           make(chan WSMessage, 256),
			logger:         logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

// Online handles GET /ws/online. The count covers this instance only.
func Online(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.MustPrincipal(c)
		response.OK(c, gin.H{"online": hub.ConnectedCount(p.OrganizationID)})
	}
}

func checkOrigin(origins middleware.Origins) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		return origins.Allows(r.Header.Get("Origin"))
	}
}

// readPump only services keepalives; the feed is server-to-client.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		if msg.Event == "ping" {
			select {
			case c.send <- WSMessage{Event: "pong"}:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
