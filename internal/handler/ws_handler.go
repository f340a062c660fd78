package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/ws"
)

// UpgradeWS rejects plain HTTP requests to the websocket endpoint.
func UpgradeWS(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// ServeWS registers the connection with the hub under the caller's user id
// and keeps it open until the client goes away.
func ServeWS(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		hub.Register(c, userID)
		defer hub.Unregister(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
