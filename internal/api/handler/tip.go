package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tip transfers coins from the viewer to another member of the chat. The
// debit, credit, announcement message, and ledger entry commit atomically; a
// replayed idempotency key is a no-op.
func (h *Handler) Tip(c *gin.Context) {
	var req struct {
		ToUserID       string `json:"to_user_id" binding:"required"`
		Amount         int64  `json:"amount" binding:"required"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.Tips.Tip(c.Request.Context(), c.Param("id"), currentUserID(c),
		req.ToUserID, req.Amount, req.IdempotencyKey)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if msg == nil {
		// Idempotency key already claimed; the original transfer stands.
		c.JSON(http.StatusOK, gin.H{"duplicate": true})
		return
	}
	c.JSON(http.StatusCreated, msg)
}
