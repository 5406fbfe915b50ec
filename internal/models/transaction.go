package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types recorded in the coin ledger.
const (
	TransactionTypeTip          = "tip"
	TransactionTypeSystemCredit = "system_credit"
	TransactionTypeSystemDebit  = "system_debit"
)

// Transaction is an immutable coin-ledger entry. FromUserID is nil for system
// credits and ToUserID is nil for system debits; user-to-user tips carry both.
type Transaction struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID  *string   `gorm:"type:uuid;index" json:"from_user_id,omitempty"`
	ToUserID    *string   `gorm:"type:uuid;index" json:"to_user_id,omitempty"`
	Amount      int64     `gorm:"not null;check:amount > 0" json:"amount"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID for the transaction if one is not already set.
func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}
