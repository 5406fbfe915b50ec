package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Profile is the projection of a user account the chat session reads.
// Profiles are provisioned out of band; the only column the chat flows ever
// write is CoinBalance, and only inside a wallet transaction.
type Profile struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string         `gorm:"type:text;not null" json:"display_name"`
	AvatarURL   string         `gorm:"type:text" json:"avatar_url"`
	CoinBalance int64          `gorm:"not null;default:0" json:"coin_balance"`
	Badges      pq.StringArray `gorm:"type:text[]" json:"badges"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BeforeCreate generates a UUID for the profile if one is not already set.
func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
