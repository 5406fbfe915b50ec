package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"gorm.io/gorm"
)

// ListMessages returns all messages of a chat, oldest first.
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Find(&msgs).Error; err != nil {
		log.Printf("ERROR: Failed to list messages for chat %s: %v", chatID, err)
		return nil, err
	}
	return msgs, nil
}

// LastMessage returns the newest message of a chat, or nil when the chat has
// no messages yet.
func (s *Service) LastMessage(ctx context.Context, chatID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// SaveMessage persists a new message. The ID and CreatedAt fields are filled
// in by GORM.
func (s *Service) SaveMessage(ctx context.Context, msg *models.Message) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for chat %s: %v", msg.ChatID, err)
		return err
	}
	return nil
}

// GetMessageByID returns a message by its ID, or nil when it does not exist.
func (s *Service) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkMessageDeleted sets the soft-delete flag matching the scope. Updating
// an already-set flag is a no-op, so the operation is idempotent.
func (s *Service) MarkMessageDeleted(ctx context.Context, messageID, scope string) error {
	var column string
	switch scope {
	case models.DeleteScopeSelf:
		column = "deleted_for_sender"
	case models.DeleteScopeEveryone:
		column = "deleted_for_everyone"
	default:
		return fmt.Errorf("unknown delete scope %q", scope)
	}

	return s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", messageID).
		UpdateColumn(column, true).Error
}
