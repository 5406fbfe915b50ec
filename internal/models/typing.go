package models

import "time"

// TypingIndicator is an ephemeral per-chat-per-user row. The producer
// refreshes UpdatedAt while composing and deletes the row shortly after the
// last keystroke; readers additionally apply a liveness window so a row the
// producer failed to delete expires on its own.
type TypingIndicator struct {
	ChatID    string    `gorm:"type:uuid;primaryKey" json:"chat_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	IsTyping  bool      `gorm:"not null;default:true" json:"is_typing"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Live reports whether the indicator is still considered fresh at the given
// instant.
func (t *TypingIndicator) Live(now time.Time, window time.Duration) bool {
	return t.IsTyping && now.Sub(t.UpdatedAt) < window
}
