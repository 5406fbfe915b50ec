package models

import "time"

// ChatMember is the per-chat-per-user state row. Every participant of a chat
// has exactly one row; unread counters are independent per member, so fan-out
// updates touch each row separately and never need a cross-member transaction.
type ChatMember struct {
	ChatID string `gorm:"type:uuid;primaryKey" json:"chat_id"`
	UserID string `gorm:"type:uuid;primaryKey" json:"user_id"`
	// UnreadCount is the number of messages the member has not seen yet.
	// Recomputable from the messages table, so a lost increment self-heals.
	UnreadCount int `gorm:"not null;default:0" json:"unread_count"`
	// LastReadAt is monotonically non-decreasing. Read receipts for the
	// counterpart are derived from it at view time.
	LastReadAt time.Time `json:"last_read_at"`
	IsPinned   bool      `gorm:"not null;default:false" json:"is_pinned"`
	JoinedAt   time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Profile is a read-only projection of the member's public profile.
	Profile *Profile `gorm:"foreignKey:UserID;references:ID" json:"profile,omitempty"`
}
