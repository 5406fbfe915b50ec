package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message types. Tip messages are synthetic announcements created by the
// coin-transfer flow, everything else is user content.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVoice = "voice"
	MessageTypeFile  = "file"
	MessageTypeTip   = "tip"
)

// Delivery status values. The stored column only ever holds "sent" or
// "delivered"; "read" is derived per viewer from the counterpart's
// last-read marker and never written back.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Delete scopes accepted by the message repository.
const (
	DeleteScopeSelf     = "self"
	DeleteScopeEveryone = "everyone"
)

// Message represents a single chat message in the PostgreSQL database.
// Messages are append-only: content is immutable after creation and removal
// is always a soft delete through one of the two tombstone flags.
type Message struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID   string `gorm:"type:uuid;not null;index:idx_msg_chat_created" json:"chat_id"`
	SenderID string `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content  string `gorm:"type:text" json:"content"`
	Type     string `gorm:"type:text;not null;default:text" json:"type"`
	// FileURL points at an already-uploaded attachment in object storage.
	FileURL *string `gorm:"type:text" json:"file_url,omitempty"`
	// ReplyToMessageID references an earlier message in the same chat.
	ReplyToMessageID *string `gorm:"type:uuid;index" json:"reply_to_message_id,omitempty"`
	Status           string  `gorm:"type:text;not null;default:sent" json:"status"`
	// DeletedForSender hides the message from its sender only.
	DeletedForSender bool `gorm:"not null;default:false" json:"deleted_for_sender"`
	// DeletedForEveryone hides the message from all participants.
	DeletedForEveryone bool       `gorm:"not null;default:false" json:"deleted_for_everyone"`
	EditedAt           *time.Time `json:"edited_at,omitempty"`
	CreatedAt          time.Time  `gorm:"index:idx_msg_chat_created" json:"created_at"`
}

// BeforeCreate generates a UUID for the message if one is not already set.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// DeletedFor reports whether the message renders as a tombstone for the
// given viewer. A "for everyone" delete hides it unconditionally, a "for
// self" delete only from the sender.
func (m *Message) DeletedFor(viewerID string) bool {
	if m.DeletedForEveryone {
		return true
	}
	return m.DeletedForSender && m.SenderID == viewerID
}
