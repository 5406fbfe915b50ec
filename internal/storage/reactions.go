package storage

import (
	"context"
	"errors"
	"log"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
	"gorm.io/gorm"
)

// ListReactionsForChat returns the raw reaction rows of every message in a
// chat, oldest first. Aggregation into per-emoji groups happens in the chat
// package.
func (s *Service) ListReactionsForChat(ctx context.Context, chatID string) ([]models.Reaction, error) {
	var rows []models.Reaction
	if err := s.DB.WithContext(ctx).
		Joins("JOIN messages ON messages.id = message_reactions.message_id").
		Where("messages.chat_id = ?", chatID).
		Order("message_reactions.created_at asc").
		Find(&rows).Error; err != nil {
		log.Printf("ERROR: Failed to list reactions for chat %s: %v", chatID, err)
		return nil, err
	}
	return rows, nil
}

// FindReaction returns the row for one (message, user, emoji) triple, or nil
// when the user has not reacted with that emoji.
func (s *Service) FindReaction(ctx context.Context, messageID, userID, emoji string) (*models.Reaction, error) {
	var row models.Reaction
	err := s.DB.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// InsertReaction persists a new reaction row. The unique index on the triple
// rejects concurrent duplicates.
func (s *Service) InsertReaction(ctx context.Context, row *models.Reaction) error {
	return s.DB.WithContext(ctx).Create(row).Error
}

// DeleteReaction removes a reaction row by ID.
func (s *Service) DeleteReaction(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Reaction{}, "id = ?", id).Error
}
