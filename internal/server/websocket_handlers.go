package server

import (
	"log/slog"
	"strconv"

	"dealboard/internal/auth"
	"dealboard/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveFeedHandler handles GET /api/ws. Signed-in clients receive engagement
// events for one post (?postId=) or for every post.
func (s *Server) LiveFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sess, _ := conn.Locals(sessionLocal).(*auth.Session)
		if sess == nil || s.hub == nil {
			_ = conn.Close()
			return
		}

		var postID uint
		if raw := conn.Query("postId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid postId"}`))
				_ = conn.Close()
				return
			}
			postID = uint(id)
		}

		client, err := s.hub.Register(sess.ID, postID, conn)
		if err != nil {
			middleware.Logger.Warn("live feed registration refused",
				slog.Uint64("user_id", uint64(sess.ID)), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
