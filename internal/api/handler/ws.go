package handler

import (
	"errors"
	"net/http"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/chat"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and attaches the client to one
// chat's live session. The first frame out is a full view snapshot; after
// that, change-feed events stream as they arrive. Inbound frames carry typing
// activity and snapshot re-requests.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID := currentUserID(c)
	chatID := c.Query("chat_id")
	if chatID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "chat_id required"})
		return
	}

	sess, err := chat.OpenSession(c.Request.Context(), h.Store, h.Reactions, chatID, userID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown chat"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sess.Close()
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := realtime.NewWebSocketClient(userID, chatID, conn, h.Hub,
		sess, chat.NewTypingTracker(h.Store, chatID, userID))

	h.Hub.RegisterCh <- client
	client.Run()
}
