package handler

import (
	"net/http"
	"time"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/chat"
	"github.com/gin-gonic/gin"
)

// GetTyping returns who is currently typing in a chat from the viewer's
// perspective, with the liveness window applied.
func (h *Handler) GetTyping(c *gin.Context) {
	rows, err := h.Store.ListTyping(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	typing := []string{}
	for _, row := range chat.LiveTyping(rows, currentUserID(c), time.Now()) {
		typing = append(typing, row.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"typing": typing})
}
