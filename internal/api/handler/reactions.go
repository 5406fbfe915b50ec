package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleReaction adds or removes the viewer's emoji reaction on a message.
func (h *Handler) ToggleReaction(c *gin.Context) {
	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Reactions.Toggle(c.Request.Context(), c.Param("id"), currentUserID(c), req.Emoji); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"toggled": true})
}
