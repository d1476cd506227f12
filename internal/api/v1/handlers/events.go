package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"workforce-portal/internal/middleware"
	"workforce-portal/internal/policy"
	myws "workforce-portal/internal/websocket"
	"workforce-portal/pkg/logger"
)

const eventBuffer = 32

// RequireUpgrade rejects plain HTTP requests to the activity feed.
func RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Events streams activity events the caller is allowed to see until either
// side closes the connection. Incoming messages are ignored.
func (h *Handler) Events() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, _ := conn.Locals(middleware.IdentityKey).(policy.Identity)
		if h.hub == nil || id.UserID == "" {
			_ = conn.Close()
			return
		}
		client := myws.NewClient(id, eventBuffer)
		if !h.hub.Register(client) {
			_ = conn.Close()
			return
		}
		defer h.hub.Unregister(client)
		logger.SystemLogger.Info("Activity feed connected", zap.String("user_id", id.UserID))

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.hub.Unregister(client)
					return
				}
			}
		}()

		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		logger.SystemLogger.Info("Activity feed closed", zap.String("user_id", id.UserID))
	})
}
