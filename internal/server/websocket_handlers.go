package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws/timeline: a one-way stream of tweet
// lifecycle events. Anonymous connections are allowed; authenticated ones
// count toward a per-user connection limit.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live timeline unavailable"}`))
			_ = conn.Close()
			return
		}

		var userID uint
		if v, ok := conn.Locals("userID").(uint); ok {
			userID = v
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Timeline: failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
