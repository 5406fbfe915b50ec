package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMembers returns the membership rows of a chat with profile snapshots.
func (h *Handler) GetMembers(c *gin.Context) {
	members, err := h.Members.GetMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// SetPinned toggles the viewer's pin flag on a chat.
func (h *Handler) SetPinned(c *gin.Context) {
	var req struct {
		Pinned *bool `json:"pinned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Members.SetPinned(c.Request.Context(), c.Param("id"), currentUserID(c), *req.Pinned); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": *req.Pinned})
}
