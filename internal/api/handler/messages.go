package handler

import (
	"net/http"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/chat"
	"github.com/gin-gonic/gin"
)

// ListChats returns the viewer's chat list previews.
func (h *Handler) ListChats(c *gin.Context) {
	previews, err := h.Messages.Previews(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": previews})
}

// GetChat returns the full view snapshot of one chat: messages with derived
// statuses and tombstones, members, reaction groups, and live typers.
func (h *Handler) GetChat(c *gin.Context) {
	ctx := c.Request.Context()
	chatID := c.Param("id")
	viewerID := currentUserID(c)

	msgs, err := h.Messages.List(ctx, chatID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	members, err := h.Members.GetMembers(ctx, chatID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	groups, err := h.Reactions.AggregateForChat(ctx, chatID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	typing, err := h.Store.ListTyping(ctx, chatID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat.Compose(chatID, viewerID, msgs, members, groups, typing))
}

// SendMessage posts a new message to a chat.
func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		Content   string  `json:"content"`
		Type      string  `json:"type" binding:"required"`
		FileURL   *string `json:"file_url"`
		ReplyToID *string `json:"reply_to_message_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), c.Param("id"), currentUserID(c),
		req.Content, req.Type, req.FileURL, req.ReplyToID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage soft-deletes a message for self or for everyone.
func (h *Handler) DeleteMessage(c *gin.Context) {
	scope := c.DefaultQuery("scope", "self")
	if err := h.Messages.MarkDeleted(c.Request.Context(), c.Param("id"), currentUserID(c), scope); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "scope": scope})
}

// MarkRead advances the viewer's read marker and clears their unread count.
func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.Messages.MarkRead(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
