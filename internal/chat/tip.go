package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/config"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/metrics"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"github.com/Codding0001/bond-chat-verse-sub000/internal/storage"
)

// TipService performs coin transfers between two chat participants. The
// debit, credit, announcement message, and ledger entry commit in a single
// store transaction, guarded by an idempotency key so a retried request
// cannot move coins twice.
type TipService struct {
	store   Store
	members *MemberService
}

func NewTipService(store Store, members *MemberService) *TipService {
	return &TipService{store: store, members: members}
}

// Tip transfers amount coins from one member of the chat to another and
// returns the announcement message. A replay of an already-claimed
// idempotency key returns (nil, nil) without touching any balance.
func (s *TipService) Tip(ctx context.Context, chatID, fromID, toID string, amount int64, idempotencyKey string) (*models.Message, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("tip amount must be positive: %w", ErrValidation)
	}
	if fromID == toID {
		return nil, fmt.Errorf("cannot tip yourself: %w", ErrValidation)
	}

	sender, err := s.store.GetMember(ctx, chatID, fromID)
	if err != nil {
		return nil, fmt.Errorf("tip: %w", err)
	}
	if sender == nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}
	recipient, err := s.store.GetProfile(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("tip: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("recipient %s: %w", toID, ErrNotFound)
	}

	if idempotencyKey != "" {
		fresh, err := s.store.ClaimTransferKey(ctx, idempotencyKey, config.TipKeyTTL)
		if err != nil {
			return nil, fmt.Errorf("tip: %w", err)
		}
		if !fresh {
			log.Printf("INFO: tip replay for key %s ignored", idempotencyKey)
			return nil, nil
		}
	}

	from, to := fromID, toID
	msg := &models.Message{
		ChatID:   chatID,
		SenderID: fromID,
		Content:  fmt.Sprintf("Tipped %d coins to %s", amount, recipient.DisplayName),
		Type:     models.MessageTypeTip,
		Status:   models.StatusSent,
	}
	txn := &models.Transaction{
		FromUserID:  &from,
		ToUserID:    &to,
		Amount:      amount,
		Type:        models.TransactionTypeTip,
		Description: msg.Content,
	}

	if err := s.store.TransferCoins(ctx, fromID, toID, amount, msg, txn); err != nil {
		// No coins moved, so the key must not block a retry. A release that
		// fails leaves the retry to the key's TTL.
		if idempotencyKey != "" {
			if relErr := s.store.ReleaseTransferKey(ctx, idempotencyKey); relErr != nil {
				log.Printf("WARNING: failed to release tip key %s: %v", idempotencyKey, relErr)
			}
		}
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return nil, fmt.Errorf("balance below %d: %w", amount, ErrInsufficientBalance)
		}
		return nil, fmt.Errorf("tip: %w", err)
	}
	metrics.TipsTransferred.Inc()
	metrics.TipCoins.Add(float64(amount))
	metrics.MessagesSent.WithLabelValues(models.MessageTypeTip).Inc()

	// The announcement is a regular inbound message for everyone else.
	if err := s.members.IncrementUnread(ctx, chatID, fromID); err != nil {
		log.Printf("WARNING: unread fan-out incomplete for tip in chat %s: %v", chatID, err)
	}

	if err := s.store.PublishEvent(ctx, models.FeedEvent{
		Stream:  models.StreamMessages,
		Op:      models.EventInsert,
		ChatID:  chatID,
		Message: msg,
	}); err != nil {
		log.Printf("WARNING: failed to publish tip message for chat %s: %v", chatID, err)
	}

	return msg, nil
}
