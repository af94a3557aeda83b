package realtime

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ClientMessage is what a connection sends to join rooms.
type ClientMessage struct {
	Event string `json:"event"`
	ID    string `json:"id"`
}

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and serves the join/leave protocol until
// the client disconnects. Room membership dies with the connection.
func Handler(hub *Hub, logger *zap.Logger) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer func() {
			hub.Remove(conn)
			_ = conn.Close()
		}()

		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Event {
			case "join_resource":
				if msg.ID != "" {
					hub.Join(ResourceRoom(msg.ID), conn)
				}
			case "join_user":
				if msg.ID != "" {
					hub.Join(UserRoom(msg.ID), conn)
				}
			case "leave_resource":
				if msg.ID != "" {
					hub.Leave(ResourceRoom(msg.ID), conn)
				}
			case "leave_user":
				if msg.ID != "" {
					hub.Leave(UserRoom(msg.ID), conn)
				}
			default:
				logger.Debug("unknown client event", zap.String("event", msg.Event))
			}
		}
	})
}
