package handler

import (
	"errors"
	"net/http"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/chat"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/realtime"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/session"
	"github.com/gin-gonic/gin"
)

// Handler carries the chat services plus the realtime hub and session store.
type Handler struct {
	Store     chat.Store
	Messages  *chat.MessageService
	Members   *chat.MemberService
	Reactions *chat.ReactionService
	Tips      *chat.TipService
	Hub       *realtime.Hub
	Sessions  *session.Store

	jwtSecret []byte
}

func NewHandler(store chat.Store, hub *realtime.Hub, sessions *session.Store, jwtSecret string) *Handler {
	members := chat.NewMemberService(store)
	return &Handler{
		Store:     store,
		Members:   members,
		Messages:  chat.NewMessageService(store, members),
		Reactions: chat.NewReactionService(store),
		Tips:      chat.NewTipService(store, members),
		Hub:       hub,
		Sessions:  sessions,
		jwtSecret: []byte(jwtSecret),
	}
}

// statusFor maps the chat error taxonomy onto HTTP statuses. Anything
// unrecognized is a transient backend failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// currentUserID returns the authenticated user set by AuthRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
