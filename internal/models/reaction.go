package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is one (message, user, emoji) row. The unique index makes a repeat
// reaction with the same emoji a constraint violation rather than a duplicate;
// the repository implements toggle semantics on top of it.
type Reaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID string    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_triple" json:"message_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_triple" json:"user_id"`
	Emoji     string    `gorm:"type:text;not null;uniqueIndex:idx_reaction_triple" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default so the table reads as message-scoped.
func (Reaction) TableName() string { return "message_reactions" }

// BeforeCreate generates a UUID for the reaction if one is not already set.
func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// ReactionGroup is the per-emoji aggregate the UI renders under a message:
// emoji, how many users reacted with it, their display names, and whether the
// current viewer is among them.
type ReactionGroup struct {
	Emoji         string   `json:"emoji"`
	Count         int      `json:"count"`
	UserNames     []string `json:"user_names"`
	ViewerReacted bool     `json:"viewer_reacted"`
}
