package realtime

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Handler upgrades authenticated admin connections and pumps hub messages
// onto the socket. Authorization happens at handshake time: the auth and
// admin-role middlewares run on the upgrade request before this handler,
// so a connection that reaches the hub has already proven an admin token.
type Handler struct {
	hub       *Hub
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewHandler builds the websocket handler.
func NewHandler(hub *Hub, heartbeat time.Duration, logger *zap.Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Handler{hub: hub, heartbeat: heartbeat, logger: logger}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the connection handler. Each connection gets a registered
// hub client, a writer that drains its queue, and a reader that enforces
// the pong deadline; missing heartbeats drops the subscriber.
func (h *Handler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := h.hub.Register()
		defer h.hub.Unregister(client)

		pongWait := h.heartbeat + h.heartbeat/2
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.Send():
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Debug("admin socket write failed", zap.Error(err))
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
